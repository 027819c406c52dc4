package repository

import (
	"context"
	"errors"

	"storeorders/internal/domain/model"
	repo "storeorders/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

func (r *CustomerGormRepository) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *CustomerGormRepository) FindByPhone(ctx context.Context, phone string) (model.Customer, error) {
	return r.findOne(ctx, "phone = ?", phone)
}

func (r *CustomerGormRepository) findOne(ctx context.Context, query string, arg interface{}) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where(query, arg).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

// 電話番号で upsert。空の項目は既存値を消さない
//
// 新規の電話番号が同時に来たときは ON CONFLICT DO NOTHING で片方だけ入り、
// もう片方は入った行をロックして更新に回る。
func (r *CustomerGormRepository) UpsertByPhone(ctx context.Context, c *model.Customer) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, found, err := lockByPhone(tx, c.Phone)
		if err != nil {
			return err
		}

		if !found {
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "phone"}},
				DoNothing: true,
			}).Create(c)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				return nil
			}

			//先に別のTxが入れた
			existing, found, err = lockByPhone(tx, c.Phone)
			if err != nil {
				return err
			}
			if !found {
				return repo.ErrDuplicate
			}
		}

		updates := map[string]interface{}{"name": c.Name}
		for col, v := range map[string]string{
			"email":       c.Email,
			"address":     c.Address,
			"city":        c.City,
			"postal_code": c.PostalCode,
			"notes":       c.Notes,
		} {
			if v != "" {
				updates[col] = v
			}
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", existing.ID).First(c).Error
	})

	if isUniqueViolation(err) {
		return repo.ErrDuplicate
	}
	return err
}

func lockByPhone(tx *gorm.DB, phone string) (model.Customer, bool, error) {
	var existing model.Customer
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("phone = ?", phone).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, false, nil
	}
	if err != nil {
		return model.Customer{}, false, err
	}
	return existing, true, nil
}
