package domain

// Corpus is the structured legal input to an index build.
// The validate tags describe the ingestion schema; the corpus loader
// enforces them before any chunking happens.
type Corpus struct {
	Acts []Act `json:"acts" validate:"required,min=1,dive"`
}

// Act is a legal document with ordered sections and footnotes.
type Act struct {
	// Title identifies the act and prefixes every chunk ID it produces.
	Title string `json:"act_title" validate:"required,notblank"`

	// Sections must be present, though the list may be empty.
	Sections []Section `json:"sections" validate:"required,dive"`

	// Footnotes must be present, though the list may be empty.
	Footnotes []Footnote `json:"footnotes" validate:"required,dive"`
}

// Section is a raw text unit of an act.
// Content is a pointer so an absent field is distinguishable from "".
type Section struct {
	Content *string `json:"section_content" validate:"required"`
}

// Footnote is a raw footnote attached to an act.
type Footnote struct {
	Text *string `json:"footnote_text" validate:"required"`
}

// Text returns the section content, or "" when absent.
func (s Section) Text() string {
	if s.Content == nil {
		return ""
	}
	return *s.Content
}

// Body returns the footnote text, or "" when absent.
func (f Footnote) Body() string {
	if f.Text == nil {
		return ""
	}
	return *f.Text
}

// NewSection builds a Section from plain text.
func NewSection(text string) Section {
	return Section{Content: &text}
}

// NewFootnote builds a Footnote from plain text.
func NewFootnote(text string) Footnote {
	return Footnote{Text: &text}
}
