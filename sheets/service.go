// Package sheets assembles recipe sheets from the repositories: viewing,
// creating and editing a recipe together with its ingredients and steps,
// listing with filters, and exporting to PDF.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeptools/fichas/models"
	"github.com/zeptools/fichas/pdfs"
	"github.com/zeptools/fichas/repos"
	"go.uber.org/zap"
)

var ErrRecipeNotFound = errors.New("sheets: recipe not found")

type Options struct {
	Clock   func() time.Time // footer date; default time.Now
	Logger  *zap.Logger
	Compose []pdfs.ComposeOption
}

type Service struct {
	repos    *repos.Repos
	pipeline *pdfs.Pipeline
	clock    func() time.Time
	compose  []pdfs.ComposeOption
	logger   *zap.Logger
}

// New builds the service. pipeline may be nil when nothing is exported.
func New(r *repos.Repos, pipeline *pdfs.Pipeline, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		repos:    r,
		pipeline: pipeline,
		clock:    opts.Clock,
		compose:  opts.Compose,
		logger:   opts.Logger.Named("sheets"),
	}
}

func (s *Service) Repos() *repos.Repos {
	return s.repos
}

// ClientOf returns the client a recipe points to, or the placeholder when it is gone
func (s *Service) ClientOf(ctx context.Context, r models.Recipe) models.Client {
	if c, ok := s.repos.Clients.GetByID(ctx, r.ClientID); ok {
		return *c
	}
	return models.MissingClient(r.ClientID)
}

// Bundle gathers everything needed to show or print one recipe
func (s *Service) Bundle(ctx context.Context, recipeID string) (models.Bundle, bool) {
	r, ok := s.repos.Recipes.GetByID(ctx, recipeID)
	if !ok {
		return models.Bundle{}, false
	}
	return models.Bundle{
		Recipe:      *r,
		Client:      s.ClientOf(ctx, *r),
		Ingredients: s.repos.Ingredients.GetByOwnerID(ctx, r.ID),
		Steps:       s.repos.Steps.GetByOwnerID(ctx, r.ID),
	}, true
}

// Create stores the recipe first and then each ingredient and step. The writes are
// independent: a failing child write is returned and earlier writes stay.
func (s *Service) Create(ctx context.Context, d Draft) (models.Bundle, error) {
	if err := d.Validate(); err != nil {
		return models.Bundle{}, err
	}
	d.Recipe.Utensils = cleanUtensils(d.Recipe.Utensils)
	rec, err := s.repos.Recipes.Create(ctx, d.Recipe)
	if err != nil {
		return models.Bundle{}, fmt.Errorf("create recipe: %w", err)
	}
	for _, in := range d.Ingredients {
		in.RecipeID = rec.ID
		if _, err = s.repos.Ingredients.Create(ctx, in); err != nil {
			return models.Bundle{}, fmt.Errorf("create ingredient: %w", err)
		}
	}
	for _, st := range d.Steps {
		st.RecipeID = rec.ID
		if _, err = s.repos.Steps.Create(ctx, st); err != nil {
			return models.Bundle{}, fmt.Errorf("create step: %w", err)
		}
	}
	s.logger.Info("recipe created",
		zap.String("id", rec.ID),
		zap.Int("ingredients", len(d.Ingredients)),
		zap.Int("steps", len(d.Steps)),
	)
	b, _ := s.Bundle(ctx, rec.ID)
	return b, nil
}

// Replace is the edit flow: every editable recipe field is overwritten, createdAt is
// kept, and ingredients and steps are replaced wholesale. Incomplete child rows are
// dropped rather than rejected.
func (s *Service) Replace(ctx context.Context, recipeID string, d Draft) (models.Bundle, bool, error) {
	if err := validateRecipe(d.Recipe); err != nil {
		return models.Bundle{}, false, err
	}
	d.Recipe.Utensils = cleanUtensils(d.Recipe.Utensils)
	_, ok, err := s.repos.Recipes.Update(ctx, recipeID, models.PatchOf(d.Recipe))
	if err != nil {
		return models.Bundle{}, true, fmt.Errorf("update recipe: %w", err)
	}
	if !ok {
		return models.Bundle{}, false, nil
	}
	if _, err = s.repos.Ingredients.ReplaceForOwner(ctx, recipeID, keep(d.Ingredients, ingredientComplete)); err != nil {
		return models.Bundle{}, true, fmt.Errorf("replace ingredients: %w", err)
	}
	if _, err = s.repos.Steps.ReplaceForOwner(ctx, recipeID, keep(d.Steps, stepComplete)); err != nil {
		return models.Bundle{}, true, fmt.Errorf("replace steps: %w", err)
	}
	b, _ := s.Bundle(ctx, recipeID)
	return b, true, nil
}

// Document composes the printable sheet of a recipe
func (s *Service) Document(ctx context.Context, recipeID string) (*pdfs.Document, error) {
	b, ok := s.Bundle(ctx, recipeID)
	if !ok {
		return nil, ErrRecipeNotFound
	}
	return pdfs.Compose(b, s.clock(), s.compose...), nil
}

// Render produces the PDF of a recipe in memory
func (s *Service) Render(ctx context.Context, recipeID string) (pdfs.Result, error) {
	doc, err := s.Document(ctx, recipeID)
	if err != nil {
		return pdfs.Result{}, err
	}
	if s.pipeline == nil {
		return pdfs.Result{}, pdfs.ErrGenerationFailed
	}
	return s.pipeline.Render(ctx, doc)
}

// Export renders a recipe and hands the PDF to saver. It returns the file name.
func (s *Service) Export(ctx context.Context, recipeID string, saver pdfs.Saver) (string, error) {
	doc, err := s.Document(ctx, recipeID)
	if err != nil {
		return "", err
	}
	if s.pipeline == nil {
		return "", pdfs.ErrGenerationFailed
	}
	return s.pipeline.Export(ctx, doc, saver)
}
