package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/saikalpataru/sadhana/core/material"
)

type materialRepository struct {
	db *sqlx.DB
}

var _ material.Repository = (*materialRepository)(nil)

func NewMaterialRepository(db *sqlx.DB) material.Repository {
	return &materialRepository{db: db}
}

func (repo *materialRepository) CreateMaterial(ctx context.Context, mat material.Material) (material.Material, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return material.Material{}, errors.Wrap(err, "beginning transaction")
	}
	defer rollback(tx)

	mat.ID, err = nextID(tx, "course_materials")
	if err != nil {
		return material.Material{}, err
	}

	q := tx.Rebind(`
		INSERT INTO course_materials (id, course_id, material_type, filename, content, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err = tx.ExecContext(ctx, q, mat.ID, mat.CourseID, mat.Type, mat.Filename, mat.Content, mat.UploadedAt); err != nil {
		return material.Material{}, errors.Wrap(err, "inserting material")
	}

	if err = tx.Commit(); err != nil {
		return material.Material{}, errors.Wrap(err, "committing material")
	}
	return mat, nil
}

func (repo *materialRepository) QueryInfosByCourse(ctx context.Context, courseID int) ([]material.Info, error) {
	infos := make([]material.Info, 0)
	q := repo.db.Rebind(`
		SELECT id, material_type, filename, uploaded_at
		FROM course_materials
		WHERE course_id = ?
		ORDER BY material_type, uploaded_at DESC`)
	err := repo.db.SelectContext(ctx, &infos, q, courseID)
	return infos, errors.Wrap(err, "querying materials")
}

func (repo *materialRepository) GetMaterialByID(ctx context.Context, id int) (material.Material, error) {
	var mat material.Material
	q := repo.db.Rebind(`SELECT * FROM course_materials WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &mat, q, id); err != nil {
		if err == sql.ErrNoRows {
			return material.Material{}, material.ErrNotFound
		}
		return material.Material{}, errors.Wrap(err, "getting material by id")
	}
	return mat, nil
}
