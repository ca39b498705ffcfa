package teams

// User is a Microsoft Graph user, as returned by /me.
type User struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName,omitempty"`
	Mail              string `json:"mail,omitempty"`
	UserPrincipalName string `json:"userPrincipalName,omitempty"`
}

// Chat is a Teams chat thread.
type Chat struct {
	ID                  string       `json:"id"`
	Topic               string       `json:"topic,omitempty"`
	ChatType            string       `json:"chatType,omitempty"`
	CreatedDateTime     string       `json:"createdDateTime,omitempty"`
	LastUpdatedDateTime string       `json:"lastUpdatedDateTime,omitempty"`
	WebURL              string       `json:"webUrl,omitempty"`
	Members             []ChatMember `json:"members,omitempty"`
}

// ChatMember is a resolved member of a chat, present when the chat was
// fetched with members expanded.
type ChatMember struct {
	ID          string   `json:"id,omitempty"`
	DisplayName string   `json:"displayName,omitempty"`
	Email       string   `json:"email,omitempty"`
	UserID      string   `json:"userId,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// ChatMessage is a message posted to a chat.
type ChatMessage struct {
	ID                   string       `json:"id"`
	MessageType          string       `json:"messageType,omitempty"`
	CreatedDateTime      string       `json:"createdDateTime,omitempty"`
	LastModifiedDateTime string       `json:"lastModifiedDateTime,omitempty"`
	Body                 ItemBody     `json:"body"`
	From                 *MessageFrom `json:"from,omitempty"`
	Attachments          []Attachment `json:"attachments,omitempty"`
}

// Attachment is a file or card attached to a message.
type Attachment struct {
	ID          string `json:"id,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Name        string `json:"name,omitempty"`
	ContentURL  string `json:"contentUrl,omitempty"`
}

// ItemBody is the content of a message, either plain text or HTML.
type ItemBody struct {
	ContentType string `json:"contentType,omitempty"`
	Content     string `json:"content"`
}

// MessageFrom identifies the sender of a message.
type MessageFrom struct {
	User *User `json:"user,omitempty"`
}

// MemberSpec names a user to include when creating a chat. Role defaults
// to owner, which Graph requires for chat creation.
type MemberSpec struct {
	Email string
	Role  string
}

// memberBinding is the wire form Graph expects for chat members on
// creation: an AAD user reference bound by URL.
type memberBinding struct {
	ODataType string   `json:"@odata.type"`
	Roles     []string `json:"roles"`
	UserBind  string   `json:"user@odata.bind"`
}

type createChatRequest struct {
	ChatType string          `json:"chatType"`
	Topic    string          `json:"topic,omitempty"`
	Members  []memberBinding `json:"members"`
}

type sendMessageRequest struct {
	Body ItemBody `json:"body"`
}

type chatList struct {
	Value []Chat `json:"value"`
}

type messageList struct {
	Value []ChatMessage `json:"value"`
}
