package domain

// BBox is a bounding box in page coordinates: [x0, y0, x1, y1].
type BBox [4]float64

// Top returns the y coordinate of the box's upper edge.
func (b BBox) Top() float64 { return b[1] }

// Bottom returns the y coordinate of the box's lower edge.
func (b BBox) Bottom() float64 { return b[3] }

// TextBlock is a span of text with its location on a page.
type TextBlock struct {
	Text string `json:"text"`
	BBox BBox   `json:"bbox"`
}

// TableCell is one cell of an extracted table.
type TableCell struct {
	Text string `json:"text"`
	BBox BBox   `json:"bbox"`
}

// Table is an extracted table as rows of cells.
type Table struct {
	Cells [][]TableCell `json:"cells"`
	BBox  BBox          `json:"bbox"`
	Page  int           `json:"page"`
}

// FormField is an interactive form element found in the source document.
type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	BBox  BBox   `json:"bbox"`
}

// Figure is an image or drawing region.
type Figure struct {
	Caption string `json:"caption"`
	BBox    BBox   `json:"bbox"`
}

// Page holds the extracted content of a single document page.
type Page struct {
	Number     int         `json:"number"`
	TextBlocks []TextBlock `json:"text_blocks"`
	Tables     []Table     `json:"tables"`
	FormFields []FormField `json:"form_fields"`
	Figures    []Figure    `json:"figures"`
}

// Document is the structure model produced by the extraction stage.
// The evaluation core treats it as read-only.
type Document struct {
	Pages     []Page      `json:"pages"`
	Tables    []Table     `json:"tables"`
	Questions []*Question `json:"questions"`
}

// PageByNumber returns the page with the given number, or nil when the
// document has no such page.
func (d *Document) PageByNumber(n int) *Page {
	for i := range d.Pages {
		if d.Pages[i].Number == n {
			return &d.Pages[i]
		}
	}
	return nil
}
