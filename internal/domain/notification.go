package domain

type Attachment struct {
	Filename string
	Content  []byte
}

type Notification struct {
	Recipient  string
	Cc         []string
	Subject    string
	Body       string
	Attachment *Attachment
}
