package lookup

// LookupInput carries one lookup event: the selected word and the page it
// was selected on. PageURL may be empty.
type LookupInput struct {
	Word    string
	PageURL string
}
