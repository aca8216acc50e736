package repo

import (
	"context"
	"errors"
	"fmt"

	"guardhouse/internal/models"
	"guardhouse/internal/secrets"
	"guardhouse/internal/session"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionStore: session.Store поверх gorm. Токены шифруются Sealer'ом.
type SessionStore struct {
	db     *gorm.DB
	sealer *secrets.Sealer
}

func NewSessionStore(db *gorm.DB, sealer *secrets.Sealer) *SessionStore {
	return &SessionStore{db: db, sealer: sealer}
}

func (s *SessionStore) Load(ctx context.Context, slot string) (session.Session, error) {
	var rec models.SessionRecord
	err := s.db.WithContext(ctx).Where("slot = ?", slot).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return session.Session{}, session.ErrNoSession
	}
	if err != nil {
		return session.Session{}, err
	}
	access, err := s.sealer.Open(rec.SealedAccessToken)
	if err != nil {
		return session.Session{}, fmt.Errorf("session %q: access token: %w", slot, err)
	}
	refresh, err := s.sealer.Open(rec.SealedRefreshToken)
	if err != nil {
		return session.Session{}, fmt.Errorf("session %q: refresh token: %w", slot, err)
	}
	return session.Session{
		AccessToken:             string(access),
		RefreshToken:            string(refresh),
		Username:                rec.Username,
		UserEmail:               rec.UserEmail,
		UserRole:                []byte(rec.UserRole),
		OrganizationName:        rec.OrganizationName,
		OrganizationType:        rec.OrganizationType,
		TaxIdentificationNumber: rec.TaxIdentificationNumber,
		ProfilePicURL:           rec.ProfilePicURL,
		LogoURL:                 rec.LogoURL,
		StaffRole:               rec.StaffRole,
		Department:              rec.Department,
		LoggedInAt:              rec.UpdatedAt,
	}, nil
}

// Save делает upsert по slot; повторный вход перезаписывает прежнюю сессию.
func (s *SessionStore) Save(ctx context.Context, slot string, sess session.Session) error {
	access, err := s.sealer.Seal([]byte(sess.AccessToken))
	if err != nil {
		return err
	}
	refresh, err := s.sealer.Seal([]byte(sess.RefreshToken))
	if err != nil {
		return err
	}
	rec := models.SessionRecord{
		Slot:                    slot,
		SealedAccessToken:       access,
		SealedRefreshToken:      refresh,
		Username:                sess.Username,
		UserEmail:               sess.UserEmail,
		UserRole:                datatypes.JSON(sess.UserRole),
		OrganizationName:        sess.OrganizationName,
		OrganizationType:        sess.OrganizationType,
		TaxIdentificationNumber: sess.TaxIdentificationNumber,
		ProfilePicURL:           sess.ProfilePicURL,
		LogoURL:                 sess.LogoURL,
		StaffRole:               sess.StaffRole,
		Department:              sess.Department,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		UpdateAll: true,
	}).Create(&rec).Error
}

func (s *SessionStore) Delete(ctx context.Context, slot string) error {
	res := s.db.WithContext(ctx).Where("slot = ?", slot).Delete(&models.SessionRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return session.ErrNoSession
	}
	return nil
}
