package engine

// DefinitionMsg carries the result of a definition fetch
type DefinitionMsg struct {
	Ticket   Ticket
	Response DefineResponse
	Err      error
}

// ListsMsg carries the word lists fetched for an instance's action panel
type ListsMsg struct {
	Ticket   Ticket
	Response ListsResponse
	Err      error
}

// ListCreatedMsg carries the result of creating a word list from an overlay
type ListCreatedMsg struct {
	Ticket Ticket
	List   WordList
	Err    error
}

// SavedMsg is sent when the history collaborator finished a save
type SavedMsg struct {
	Ticket Ticket
	Err    error
}

// SelfCloseMsg asks the controller to remove an instance on its own schedule
type SelfCloseMsg struct {
	Ticket Ticket
}

// ListPromptMsg asks the host to open the "new list name" prompt for an instance
type ListPromptMsg struct {
	ID ID
}

// NoticeLevel is the severity of a notice
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeError
)

// NoticeMsg is a short user-facing message about an overlay action
type NoticeMsg struct {
	Level NoticeLevel
	Text  string
}
