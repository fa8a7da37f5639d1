package services

import (
	"context"
	"io"

	"github.com/tracklane/tracklane/internal/models"
	"github.com/tracklane/tracklane/internal/storage"
	"gorm.io/gorm"
)

type AttachmentService struct {
	db    *gorm.DB
	blobs storage.BlobStore
}

func NewAttachmentService(database *gorm.DB, blobs storage.BlobStore) *AttachmentService {
	return &AttachmentService{db: database, blobs: blobs}
}

// Create stores the file contents in the blob store, then records the
// attachment against the ticket. The blob write happens before the
// database row so a failed upload never leaves a locator pointing at
// nothing.
func (s *AttachmentService) Create(ctx context.Context, userID uint, projectID, ticketID uint, filename string, contents io.Reader) (*models.Attachment, error) {
	ticket, err := requireTicketAccess(s.db.WithContext(ctx), projectID, ticketID, userID, OwnerOrMember)
	if err != nil {
		return nil, err
	}

	locator, err := s.blobs.Store(ctx, filename, contents)
	if err != nil {
		if err == storage.ErrInvalidName {
			return nil, ErrInvalidArgument
		}
		return nil, ErrUnavailable
	}

	attachment := models.Attachment{
		FileName: filename,
		FileURL:  locator,
		TicketID: ticket.ID,
	}

	if err := s.db.WithContext(ctx).Create(&attachment).Error; err != nil {
		return nil, translateDBError(err)
	}

	return &attachment, nil
}

func (s *AttachmentService) List(ctx context.Context, userID uint, projectID, ticketID uint) ([]models.Attachment, error) {
	ticket, err := requireTicketAccess(s.db.WithContext(ctx), projectID, ticketID, userID, OwnerOrMember)
	if err != nil {
		return nil, err
	}

	var attachments []models.Attachment

	if err := s.db.WithContext(ctx).Where("ticket_id = ?", ticket.ID).Find(&attachments).Error; err != nil {
		return nil, translateDBError(err)
	}

	return attachments, nil
}
