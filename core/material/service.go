package material

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("material not found")

type (
	Repository interface {
		CreateMaterial(ctx context.Context, mat Material) (Material, error)
		QueryInfosByCourse(ctx context.Context, courseID int) ([]Info, error)
		GetMaterialByID(ctx context.Context, id int) (Material, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Upload stores a new material row. Each upload is a new row, even for
// an existing filename.
func (svc *Service) Upload(ctx context.Context, courseID int, matType, filename string, content []byte) (Material, error) {
	mat, err := svc.repo.CreateMaterial(ctx, Material{
		CourseID:   courseID,
		Type:       matType,
		Filename:   filename,
		Content:    content,
		UploadedAt: time.Now().UTC(),
	})
	return mat, errors.Wrap(err, "creating material")
}

func (svc *Service) ListByCourse(ctx context.Context, courseID int) ([]Info, error) {
	return svc.repo.QueryInfosByCourse(ctx, courseID)
}

// Get returns the material with its content for download. Downloads
// are open to any authenticated user, enrolled in the course or not.
func (svc *Service) Get(ctx context.Context, id int) (Material, error) {
	return svc.repo.GetMaterialByID(ctx, id)
}
