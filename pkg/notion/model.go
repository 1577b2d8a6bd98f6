package notion

// Property names of the systems database.
const (
	PropSystem   = "Système"
	PropPrevious = "Previous"
	PropNext     = "Next"
	PropCategory = "Catégorie"
	PropDays     = "Jours"
	PropActions  = "Actions"
	PropComment  = "Commentaire"
)

// QueryRequest is the body of a database query. An empty request is sent as {}.
type QueryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

// QueryResponse is one page of database query results.
type QueryResponse struct {
	Object     string  `json:"object"`
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// Page is a database row.
type Page struct {
	Object     string              `json:"object"`
	ID         string              `json:"id"`
	URL        string              `json:"url"`
	Icon       *Icon               `json:"icon"`
	Properties map[string]Property `json:"properties"`
}

type Icon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji,omitempty"`
}

// Property holds the subset of property shapes the systems database uses.
type Property struct {
	ID      string     `json:"id"`
	Type    string     `json:"type"`
	Title   []RichText `json:"title,omitempty"`
	Formula *Formula   `json:"formula,omitempty"`
	Select  *Select    `json:"select,omitempty"`
}

type RichText struct {
	Type      string   `json:"type"`
	PlainText string   `json:"plain_text"`
	Href      *string  `json:"href"`
	Mention   *Mention `json:"mention,omitempty"`
}

type Mention struct {
	Type string   `json:"type"`
	Page *PageRef `json:"page,omitempty"`
}

type PageRef struct {
	ID string `json:"id"`
}

// Formula is a formula result; exactly one of the value fields is set according to Type.
type Formula struct {
	Type    string     `json:"type"`
	String  *string    `json:"string,omitempty"`
	Number  *float64   `json:"number,omitempty"`
	Boolean *bool      `json:"boolean,omitempty"`
	Date    *DateValue `json:"date,omitempty"`
}

type DateValue struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

type Select struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// FirstTitle returns the first rich text element of a title property.
func (p Property) FirstTitle() (RichText, bool) {
	if len(p.Title) == 0 {
		return RichText{}, false
	}
	return p.Title[0], true
}

// Text returns the formula's string value, or its date start when it is a date formula.
func (f *Formula) Text() string {
	if f == nil {
		return ""
	}
	if f.String != nil {
		return *f.String
	}
	if f.Date != nil {
		return f.Date.Start
	}
	return ""
}

// DateStart returns the formula's date start, or its string value when the formula
// produces text.
func (f *Formula) DateStart() string {
	if f == nil {
		return ""
	}
	if f.Date != nil {
		return f.Date.Start
	}
	if f.String != nil {
		return *f.String
	}
	return ""
}
