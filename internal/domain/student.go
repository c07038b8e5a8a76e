package domain

import "strings"

type Student struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
}

func (s Student) Name() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
