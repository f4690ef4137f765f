package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/zluffi/zluffi-backend/internal/dto"
	"github.com/zluffi/zluffi-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrAlreadyBlocked = errors.New("user already blocked")
	ErrSelfBlock      = errors.New("cannot block yourself")
	ErrBlockNotFound  = errors.New("block not found")
)

type ModerationService struct {
	db *gorm.DB
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

func (s *ModerationService) CreateReport(reporterID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	v := &ValidationError{}
	if !models.ValidReportContentType(req.ContentType) {
		v.add("content_type", "content_type must be one of: listing, user, message")
	}
	if req.ContentID == "" {
		v.add("content_id", "content_id is required")
	}
	if n := utf8.RuneCountInString(req.Reason); n < 1 || n > 500 {
		v.add("reason", "reason must be between 1 and 500 characters")
	}
	if err := v.orNil(); err != nil {
		return nil, err
	}

	report := models.Report{
		ID:          uuid.New(),
		ReporterID:  reporterID,
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		Reason:      req.Reason,
		Status:      models.ReportStatusPending,
	}
	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

func (s *ModerationService) ListReports(status string) ([]models.Report, error) {
	tx := s.db.Order("created_at DESC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var reports []models.Report
	if err := tx.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (s *ModerationService) ActionReport(id uuid.UUID, req *dto.ActionReportRequest) (*models.Report, error) {
	if req.Status != models.ReportStatusResolved && req.Status != models.ReportStatusDismissed && req.Status != models.ReportStatusPending {
		v := &ValidationError{}
		v.add("status", "status must be one of: pending, resolved, dismissed")
		return nil, v
	}

	var report models.Report
	if err := s.db.First(&report, "id = ?", id).Error; err != nil {
		return nil, ErrReportNotFound
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.AdminNote != "" {
		updates["admin_note"] = req.AdminNote
	}
	if err := s.db.Model(&report).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}
	return &report, nil
}

func (s *ModerationService) BlockUser(blockerID, blockedID uuid.UUID) (*models.Block, error) {
	if blockerID == blockedID {
		return nil, ErrSelfBlock
	}

	var user models.User
	if err := s.db.Select("id").First(&user, "id = ?", blockedID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	var existing models.Block
	if err := s.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).First(&existing).Error; err == nil {
		return nil, ErrAlreadyBlocked
	}

	block := models.Block{
		ID:        uuid.New(),
		BlockerID: blockerID,
		BlockedID: blockedID,
	}
	if err := s.db.Create(&block).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, ErrAlreadyBlocked
		}
		return nil, fmt.Errorf("failed to create block: %w", err)
	}
	return &block, nil
}

func (s *ModerationService) UnblockUser(blockerID, blockID uuid.UUID) error {
	result := s.db.Where("id = ? AND blocker_id = ?", blockID, blockerID).Delete(&models.Block{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete block: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBlockNotFound
	}
	return nil
}
