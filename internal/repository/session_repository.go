package repository

import (
	"context"

	"storeorders/internal/domain/checkout"
)

// チェックアウトセッション（カート）の保存先。
// 保存ごとに有効期限を延ばす。期限切れは放棄扱いで ErrNotFound。
type SessionRepository interface {
	Save(ctx context.Context, s checkout.Session) error
	Find(ctx context.Context, id string) (checkout.Session, error)
	Delete(ctx context.Context, id string) error
	// Update は読み出し・fn での変更・保存を不可分に行う。
	// 途中で他の書き込みが入ったら読み直して fn をやり直し、諦めたら ErrConflict。
	// fn のエラーはそのまま返し、保存しない。
	Update(ctx context.Context, id string, fn func(s *checkout.Session) error) (checkout.Session, error)
}
