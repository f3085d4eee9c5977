package pdfs

import (
	"strconv"
	"strings"
	"time"

	"github.com/zeptools/fichas/models"
)

const (
	Brand            = "SrFoodSafety"
	DocumentHeading  = "Ficha Técnica de Receita"
	NoIngredientsMsg = "Nenhum ingrediente cadastrado."
	NoStepsMsg       = "Nenhum passo cadastrado."
	FooterDateLayout = "02/01/2006"
)

const (
	green     = "#16a34a"
	lightGrn  = "#22c55e"
	ink       = "#1f2937"
	muted     = "#6b7280"
	paleBg    = "#f8fafc"
	cardBg    = "#f9fafb"
	lineColor = "#e5e7eb"
	white     = "#ffffff"
)

type composeConfig struct {
	paper PaperSize
	brand string
}

type ComposeOption func(*composeConfig)

// WithPaper sets the page the layout width is derived from. Default A4.
func WithPaper(p PaperSize) ComposeOption {
	return func(c *composeConfig) { c.paper = p }
}

func WithBrand(name string) ComposeOption {
	return func(c *composeConfig) { c.brand = name }
}

// Compose builds the printable sheet for b. It does no I/O; now only feeds the footer date.
func Compose(b models.Bundle, now time.Time, opts ...ComposeOption) *Document {
	cfg := composeConfig{paper: A4Size, brand: Brand}
	for _, o := range opts {
		o(&cfg)
	}
	r := b.Recipe
	root := block(RoleRoot, Style{Background: white, Padding: 40, FontSize: 12, Color: ink},
		header(cfg.brand, r.Name),
		photos(r.Photo, b.Client.Logo),
		clientCard(b.Client),
		infoGrid(r, b.Client.Name),
		utensils(r.Utensils),
		ingredientsTable(b.Ingredients),
		steps(b.Steps),
		block(RoleFooter, Style{Align: AlignCenter, Padding: 20, Color: muted, FontSize: 10},
			text(RoleFooter, Style{}, "Ficha técnica gerada em "+now.Format(FooterDateLayout)),
		),
	)
	return &Document{Title: r.Name, Width: cfg.paper.LayoutWidthPx(), Root: root}
}

func header(brand, recipeName string) *Node {
	return block(RoleHeader, Style{Align: AlignCenter, Padding: 16, MarginBottom: 32, Underline: green},
		inline(RoleBrand, Style{Align: AlignCenter, MarginBottom: 16},
			text(RoleBrandMark, Style{FontSize: 18, Bold: true, Color: white, Background: green, Padding: 12, Radius: 12}, "Sr."),
			text(RoleBrand, Style{FontSize: 36, Bold: true, Color: green, Padding: 8}, brand),
		),
		text(RoleTitle, Style{FontSize: 24, Bold: true, Color: green, MarginBottom: 12}, DocumentHeading),
		text(RoleRecipeName, Style{FontSize: 22, Bold: true, Color: ink, Background: paleBg, Padding: 10, Radius: 8}, recipeName),
	)
}

func photos(productPhoto, logo string) *Node {
	if productPhoto == "" && logo == "" {
		return nil
	}
	card := Style{Align: AlignCenter, Background: paleBg, Padding: 15, Radius: 12}
	caption := Style{Align: AlignCenter, Bold: true, Color: green, FontSize: 14}
	var cols []*Node
	var weights []float64
	if productPhoto != "" {
		cols = append(cols, block(RoleProductPhoto, card,
			img(RoleProductPhoto, Style{MaxHeight: 250, Radius: 8, MarginBottom: 10}, productPhoto),
			text(RoleCaption, caption, "Produto Final"),
		))
		weights = append(weights, 3)
	}
	if logo != "" {
		caption.FontSize = 12
		cols = append(cols, block(RoleClientLogo, card,
			img(RoleClientLogo, Style{MaxWidth: 110, MaxHeight: 110, Radius: 8, MarginBottom: 10}, logo),
			text(RoleCaption, caption, "Cliente"),
		))
		weights = append(weights, 1)
	}
	return columns(RolePhotos, Style{Gap: 30, MarginBottom: 32, Weights: weights}, cols...)
}

func clientCard(c models.Client) *Node {
	contact := Style{Align: AlignCenter, FontSize: 12, Color: muted}
	var email, phone *Node
	if c.Email != "" {
		email = text(RoleClientContact, contact, c.Email)
	}
	if c.Phone != "" {
		phone = text(RoleClientContact, contact, c.Phone)
	}
	return block(RoleClient, Style{Align: AlignCenter, Padding: 20, MarginBottom: 25, Border: lineColor, BorderWidth: 2, Radius: 12, Background: cardBg},
		text(RoleSectionTitle, Style{Align: AlignCenter, FontSize: 16, Bold: true, Color: lightGrn, MarginBottom: 12}, "Cliente"),
		text(RoleClientName, Style{Align: AlignCenter, FontSize: 18, Bold: true, Color: ink, MarginBottom: 4}, c.Name),
		email,
		phone,
	)
}

func sectionTitle(s string) *Node {
	return text(RoleSectionTitle, Style{FontSize: 18, Bold: true, Color: green, Underline: green, Padding: 4, MarginBottom: 16}, s)
}

func field(label, value string) *Node {
	return inline(RoleField, Style{FontSize: 14, MarginBottom: 8},
		text(RoleFieldLabel, Style{Bold: true, Color: ink}, label+": "),
		text(RoleFieldValue, Style{Bold: true, Color: green}, value),
	)
}

func panel(role Role, children ...*Node) *Node {
	return block(role, Style{Background: paleBg, Padding: 20, Radius: 12, AccentLeft: green}, children...)
}

func infoGrid(r models.Recipe, clientName string) *Node {
	return columns(RoleInfoGrid, Style{Gap: 30, MarginBottom: 32, Weights: []float64{1, 1}},
		panel(RoleGeneralInfo,
			sectionTitle("Informações Gerais"),
			field("Tipo de Ficha", string(r.SheetType)),
			field("Peso da Preparação", formatNumber(r.PreparationWt)+"g"),
			field("Peso por Porção", formatNumber(r.PortionWt)+"g"),
			field("Tempo de Preparo", strconv.Itoa(r.PreparationTime)+" min"),
			field("Rendimento", strconv.Itoa(r.Yield)+" porções"),
		),
		panel(RoleResponsible,
			sectionTitle("Responsáveis"),
			field("Empresa", r.Company),
			field("Realizado por", r.PreparedBy),
			field("Aprovado por", r.ApprovedBy),
			field("Cliente", clientName),
		),
	)
}

func utensils(list []string) *Node {
	n := panel(RoleUtensils,
		sectionTitle("Utensílios Necessários"),
		text(RoleUtensils, Style{FontSize: 14, Color: ink}, strings.Join(list, ", ")),
	)
	n.Style.MarginBottom = 32
	return n
}

var tableWeights = []float64{2, 1, 1.5}

func ingredientsTable(ings []models.Ingredient) *Node {
	head := Style{FontSize: 14, Bold: true, Color: white, Padding: 12}
	rows := []*Node{
		sectionTitle("Ingredientes"),
		columns(RoleTableHeader, Style{Background: green, Weights: tableWeights},
			text(RoleCell, head, "Ingrediente"),
			text(RoleCell, head, "Quantidade"),
			text(RoleCell, head, "Medida Caseira"),
		),
	}
	if len(ings) == 0 {
		rows = append(rows, emptyState(NoIngredientsMsg))
	}
	for i, ing := range ings {
		bg := paleBg
		if i%2 == 1 {
			bg = white
		}
		cell := Style{FontSize: 13, Padding: 12}
		qty := cell
		qty.Bold, qty.Color = true, green
		rows = append(rows, columns(RoleTableRow, Style{Background: bg, Underline: lineColor, Weights: tableWeights},
			text(RoleCell, cell, ing.Name),
			text(RoleCell, qty, formatNumber(ing.Quantity)),
			text(RoleCell, cell, ing.HouseholdMeasure),
		))
	}
	return block(RoleIngredients, Style{MarginBottom: 32}, rows...)
}

func steps(list []models.Step) *Node {
	children := []*Node{sectionTitle("Modo de Preparo")}
	if len(list) == 0 {
		children = append(children, emptyState(NoStepsMsg))
	}
	for i, s := range list {
		var photo *Node
		if s.Photo != "" {
			photo = img(RoleStepPhoto, Style{MaxHeight: 180, Radius: 8}, s.Photo)
		}
		children = append(children, block(RoleStep,
			Style{Background: paleBg, Padding: 20, MarginBottom: 24, Border: lineColor, BorderWidth: 2, Radius: 12, AccentLeft: green},
			text(RoleStepTitle, Style{FontSize: 16, Bold: true, Color: green, Background: white, Padding: 8, Radius: 6, MarginBottom: 12}, "Passo "+strconv.Itoa(i+1)),
			text(RoleStepText, Style{FontSize: 14, Color: ink, MarginBottom: 12}, s.Instruction),
			photo,
		))
	}
	return block(RoleSteps, Style{MarginBottom: 32}, children...)
}

func emptyState(msg string) *Node {
	return text(RoleEmptyState, Style{FontSize: 13, Color: muted, Padding: 12}, msg)
}

// formatNumber prints the shortest decimal form: 500, 0.5, 1.25
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
