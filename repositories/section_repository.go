package repositories

import (
	"context"

	"acenumerik.fr/configs"
	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ISectionRepository persists the whole section configuration as one unit.
type ISectionRepository interface {
	LoadAll(ctx context.Context) ([]models.Section, []models.SectionData, error)
	// ReplaceAll upserts the given rows and deletes every row not listed, in one transaction.
	ReplaceAll(ctx context.Context, sections []models.Section, data []models.SectionData) error
}

// SectionRepository implements ISectionRepository with gorm.
type SectionRepository struct {
	db *gorm.DB
}

// NewSectionRepository uses the shared connection.
func NewSectionRepository() ISectionRepository {
	return &SectionRepository{db: configs.GetDB()}
}

// NewSectionRepositoryTx binds the repository to tx, as the seeders do.
func NewSectionRepositoryTx(tx *gorm.DB) ISectionRepository {
	return &SectionRepository{db: tx}
}

func (r *SectionRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// LoadAll returns the sections in order and every payload row.
func (r *SectionRepository) LoadAll(ctx context.Context) ([]models.Section, []models.SectionData, error) {
	db := r.getDB(ctx)
	var sections []models.Section
	if err := db.Order("sort_order asc, id asc").Find(&sections).Error; err != nil {
		configslog.Log.Error("SectionRepository.LoadAll sections failed", zap.Error(err))
		return nil, nil, err
	}
	var data []models.SectionData
	if err := db.Find(&data).Error; err != nil {
		configslog.Log.Error("SectionRepository.LoadAll data failed", zap.Error(err))
		return nil, nil, err
	}
	return sections, data, nil
}

// ReplaceAll swaps the stored sections and payloads for the given ones in one transaction.
func (r *SectionRepository) ReplaceAll(ctx context.Context, sections []models.Section, data []models.SectionData) error {
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]string, len(sections))
		for i, s := range sections {
			ids[i] = s.ID
		}
		dataIDs := make([]string, len(data))
		for i, d := range data {
			dataIDs[i] = d.SectionID
		}

		if len(sections) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&sections).Error; err != nil {
				return err
			}
		}
		if len(data) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&data).Error; err != nil {
				return err
			}
		}

		staleData := tx.Where("1 = 1")
		if len(dataIDs) > 0 {
			staleData = tx.Where("section_id NOT IN ?", dataIDs)
		}
		if err := staleData.Delete(&models.SectionData{}).Error; err != nil {
			return err
		}

		staleSections := tx.Where("1 = 1")
		if len(ids) > 0 {
			staleSections = tx.Where("id NOT IN ?", ids)
		}
		return staleSections.Delete(&models.Section{}).Error
	})
}

var _ ISectionRepository = (*SectionRepository)(nil)
