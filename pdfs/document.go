package pdfs

import "strings"

type Kind uint8

const (
	KindBlock   Kind = iota // children stacked vertically
	KindColumns             // children side by side, widths from Style.Weights
	KindInline              // text runs on one line, the last run wraps
	KindText
	KindImage
)

var kindNames = [...]string{"block", "columns", "inline", "text", "image"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Role names what a node shows. Renderers may ignore it; tests and lookups use it.
type Role string

const (
	RoleRoot          Role = "root"
	RoleHeader        Role = "header"
	RoleBrand         Role = "brand"
	RoleBrandMark     Role = "brand-mark"
	RoleTitle         Role = "title"
	RoleRecipeName    Role = "recipe-name"
	RolePhotos        Role = "photos"
	RoleProductPhoto  Role = "product-photo"
	RoleClientLogo    Role = "client-logo"
	RoleCaption       Role = "caption"
	RoleClient        Role = "client"
	RoleClientName    Role = "client-name"
	RoleClientContact Role = "client-contact"
	RoleInfoGrid      Role = "info-grid"
	RoleGeneralInfo   Role = "general-info"
	RoleResponsible   Role = "responsible"
	RoleSectionTitle  Role = "section-title"
	RoleField         Role = "field"
	RoleFieldLabel    Role = "field-label"
	RoleFieldValue    Role = "field-value"
	RoleUtensils      Role = "utensils"
	RoleIngredients   Role = "ingredients"
	RoleTableHeader   Role = "table-header"
	RoleTableRow      Role = "table-row"
	RoleCell          Role = "cell"
	RoleSteps         Role = "steps"
	RoleStep          Role = "step"
	RoleStepTitle     Role = "step-title"
	RoleStepText      Role = "step-text"
	RoleStepPhoto     Role = "step-photo"
	RoleEmptyState    Role = "empty-state"
	RoleFooter        Role = "footer"
)

// Style holds inline presentation. Lengths are CSS pixels, colors are #rrggbb.
// Zero values mean "not set": no border, transparent background, inherited font size.
type Style struct {
	FontSize     float64
	Bold         bool
	Color        string
	Background   string
	Align        Align
	Padding      float64
	MarginBottom float64
	Border       string // color of a box border
	BorderWidth  float64
	AccentLeft   string // color of a 5px bar on the left edge
	Underline    string // color of a 2px rule under the box
	Radius       float64
	MaxWidth     float64 // images only
	MaxHeight    float64 // images only
	Gap          float64 // columns only
	Weights      []float64
}

type Node struct {
	Kind     Kind
	Role     Role
	Style    Style
	Text     string // KindText
	Src      string // KindImage, data URI
	Children []*Node
}

// Walk visits n and its descendants depth first. Returning false from fn skips
// the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// TextContent joins every text below n with single spaces
func (n *Node) TextContent() string {
	var parts []string
	n.Walk(func(x *Node) bool {
		if x.Kind == KindText && x.Text != "" {
			parts = append(parts, x.Text)
		}
		return true
	})
	return strings.Join(parts, " ")
}

// Document is a composed, renderer-independent recipe sheet
type Document struct {
	Title string // recipe name, also feeds the file name
	Width int    // layout width in CSS px
	Root  *Node
}

// Find returns every node with the given role in document order
func (d *Document) Find(role Role) []*Node {
	var out []*Node
	d.Root.Walk(func(n *Node) bool {
		if n.Role == role {
			out = append(out, n)
		}
		return true
	})
	return out
}

func block(role Role, st Style, children ...*Node) *Node {
	return &Node{Kind: KindBlock, Role: role, Style: st, Children: compact(children)}
}

func columns(role Role, st Style, children ...*Node) *Node {
	return &Node{Kind: KindColumns, Role: role, Style: st, Children: compact(children)}
}

func inline(role Role, st Style, runs ...*Node) *Node {
	return &Node{Kind: KindInline, Role: role, Style: st, Children: compact(runs)}
}

func text(role Role, st Style, s string) *Node {
	return &Node{Kind: KindText, Role: role, Style: st, Text: s}
}

func img(role Role, st Style, src string) *Node {
	return &Node{Kind: KindImage, Role: role, Style: st, Src: src}
}

// compact drops nil children so optional sections can be written inline
func compact(nodes []*Node) []*Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
