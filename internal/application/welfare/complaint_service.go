package welfare

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/common"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/welfare"
	"go.uber.org/zap"
)

// DefaultAllowedTypes are the attachment content types accepted when none are configured.
// SVG is excluded because it can carry scripts.
var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "application/pdf"}

var errComplaintNotOpen = shared.NewDomainError("COMPLAINT_NOT_OPEN", "Only open complaints can be deleted")

// ComplaintServiceConfig holds attachment limits
type ComplaintServiceConfig struct {
	MaxUploadSize int64
	AllowedTypes  []string
	PresignTTL    time.Duration
}

func (c ComplaintServiceConfig) withDefaults() ComplaintServiceConfig {
	if c.MaxUploadSize <= 0 {
		c.MaxUploadSize = 5 << 20
	}
	if len(c.AllowedTypes) == 0 {
		c.AllowedTypes = DefaultAllowedTypes
	}
	if c.PresignTTL <= 0 {
		c.PresignTTL = 15 * time.Minute
	}
	return c
}

// ComplaintService handles complaints and their attachments
type ComplaintService struct {
	complaintRepo welfare.ComplaintRepository
	roomRepo      housing.RoomRepository
	storage       common.ObjectStorage
	publisher     shared.EventPublisher
	sanitizer     *common.Sanitizer
	config        ComplaintServiceConfig
	logger        *zap.Logger
}

// NewComplaintService creates a new ComplaintService
func NewComplaintService(
	complaintRepo welfare.ComplaintRepository,
	roomRepo housing.RoomRepository,
	storage common.ObjectStorage,
	publisher shared.EventPublisher,
	config ComplaintServiceConfig,
	logger *zap.Logger,
) *ComplaintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{
		complaintRepo: complaintRepo,
		roomRepo:      roomRepo,
		storage:       storage,
		publisher:     publisher,
		sanitizer:     common.NewSanitizer(),
		config:        config.withDefaults(),
		logger:        logger,
	}
}

// Create files a complaint on behalf of the actor
func (s *ComplaintService) Create(ctx context.Context, actor shared.Actor, input CreateComplaintInput) (*ComplaintDTO, error) {
	if !actor.IsStudent() {
		return nil, shared.ErrStudentOnly
	}
	if input.RoomID != nil {
		if _, err := s.roomRepo.FindByID(ctx, *input.RoomID); err != nil {
			return nil, err
		}
	}
	complaint, err := welfare.NewComplaint(actor.UserID, input.RoomID, input.Category,
		s.sanitizer.Text(input.Title), s.sanitizer.Text(input.Description), input.Priority)
	if err != nil {
		return nil, err
	}
	if err := s.complaintRepo.Create(ctx, complaint); err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, complaint)

	s.logger.Info("Complaint filed",
		zap.String("complaint_id", complaint.ID.String()),
		zap.String("student_id", actor.UserID.String()),
		zap.String("category", string(complaint.Category)))
	dto := ToComplaintDTO(complaint)
	return &dto, nil
}

// Update edits the student's own OPEN complaint
func (s *ComplaintService) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, input UpdateComplaintInput) (*ComplaintDTO, error) {
	complaint, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if input.RoomID != nil {
		if _, err := s.roomRepo.FindByID(ctx, *input.RoomID); err != nil {
			return nil, err
		}
	}
	if err := complaint.Update(welfare.ComplaintUpdate{
		Category:    input.Category,
		Title:       s.sanitizer.TextPtr(input.Title),
		Description: s.sanitizer.TextPtr(input.Description),
		Priority:    input.Priority,
		RoomID:      input.RoomID,
	}); err != nil {
		return nil, err
	}
	if err := s.complaintRepo.Update(ctx, complaint); err != nil {
		return nil, err
	}
	dto := ToComplaintDTO(complaint)
	return &dto, nil
}

// Delete removes a complaint and its stored attachments
func (s *ComplaintService) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	complaint, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if !complaint.CanBeDeletedBy(actor) {
		return errComplaintNotOpen
	}
	if err := s.complaintRepo.Delete(ctx, id); err != nil {
		return err
	}
	for _, key := range complaint.Attachments {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to delete complaint attachment",
				zap.String("key", key),
				zap.Error(err))
		}
	}
	s.logger.Info("Complaint deleted", zap.String("complaint_id", id.String()))
	return nil
}

// Get returns a complaint visible to the actor
func (s *ComplaintService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ComplaintDTO, error) {
	complaint, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	dto := ToComplaintDTO(complaint)
	return &dto, nil
}

// List returns complaints. Students only see their own.
func (s *ComplaintService) List(ctx context.Context, actor shared.Actor, input ListComplaintsInput) (*shared.Paginated[ComplaintDTO], error) {
	filter := welfare.ComplaintFilter{
		StudentID:  input.StudentID,
		RoomID:     input.RoomID,
		AssignedTo: input.AssignedTo,
		Status:     input.Status,
		Category:   input.Category,
		Priority:   input.Priority,
		Keyword:    input.Search,
		From:       input.From,
		To:         input.To,
		Page:       input.Page,
		PageSize:   input.PageSize,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
	}
	if !actor.IsAdmin() {
		own := actor.UserID
		filter.StudentID = &own
	}
	normalizePage(&filter.Page, &filter.PageSize)

	complaints, total, err := s.complaintRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ComplaintDTO, len(complaints))
	for i, c := range complaints {
		items[i] = ToComplaintDTO(c)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ChangeStatus moves a complaint through its workflow
func (s *ComplaintService) ChangeStatus(ctx context.Context, id uuid.UUID, input ChangeComplaintStatusInput) (*ComplaintDTO, error) {
	return s.mutate(ctx, shared.SystemActor, id, func(c *welfare.Complaint) error {
		return c.ChangeStatus(input.Status, s.sanitizer.Text(input.Resolution))
	})
}

// Assign hands a complaint to a staff member
func (s *ComplaintService) Assign(ctx context.Context, id, assignee uuid.UUID) (*ComplaintDTO, error) {
	return s.mutate(ctx, shared.SystemActor, id, func(c *welfare.Complaint) error {
		return c.Assign(assignee)
	})
}

// Reopen sends the student's RESOLVED complaint back to OPEN
func (s *ComplaintService) Reopen(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ComplaintDTO, error) {
	return s.mutate(ctx, actor, id, func(c *welfare.Complaint) error {
		return c.Reopen(actor.UserID)
	})
}

// UploadAttachment stores a file and records it on the complaint. The content
// type is sniffed from the data; the client supplied type is only a fallback.
func (s *ComplaintService) UploadAttachment(ctx context.Context, actor shared.Actor, id uuid.UUID, input UploadInput) (*ComplaintDTO, error) {
	complaint, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if len(input.Data) == 0 {
		return nil, shared.NewDomainError("EMPTY_FILE", "Uploaded file is empty")
	}
	if int64(len(input.Data)) > s.config.MaxUploadSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("File exceeds the maximum size of %d bytes", s.config.MaxUploadSize))
	}
	contentType := detectContentType(input.Data, input.ContentType)
	if !s.allowed(contentType) {
		return nil, shared.NewDomainError("UNSUPPORTED_FILE_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed", contentType))
	}

	key := attachmentKey(complaint.ID, input.FileName)
	if err := complaint.AddAttachment(key); err != nil {
		return nil, err
	}
	if err := s.storage.Put(ctx, key, input.Data, contentType); err != nil {
		return nil, err
	}
	if err := s.complaintRepo.Update(ctx, complaint); err != nil {
		_ = s.storage.Delete(ctx, key)
		return nil, err
	}

	s.logger.Info("Complaint attachment uploaded",
		zap.String("complaint_id", id.String()),
		zap.String("key", key),
		zap.Int("size", len(input.Data)))
	dto := ToComplaintDTO(complaint)
	return &dto, nil
}

// AttachmentURL returns a presigned download URL for one attachment
func (s *ComplaintService) AttachmentURL(ctx context.Context, actor shared.Actor, id uuid.UUID, key string) (*AttachmentURL, error) {
	complaint, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !complaint.HasAttachment(key) {
		return nil, shared.ErrNotFound
	}
	url, expires, err := s.storage.PresignGet(ctx, key, s.config.PresignTTL)
	if err != nil {
		return nil, err
	}
	return &AttachmentURL{Key: key, URL: url, ExpiresAt: expires}, nil
}

func (s *ComplaintService) mutate(ctx context.Context, actor shared.Actor, id uuid.UUID, fn func(*welfare.Complaint) error) (*ComplaintDTO, error) {
	complaint, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := fn(complaint); err != nil {
		return nil, err
	}
	if err := s.complaintRepo.Update(ctx, complaint); err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, complaint)

	s.logger.Info("Complaint updated",
		zap.String("complaint_id", id.String()),
		zap.String("status", string(complaint.Status)))
	dto := ToComplaintDTO(complaint)
	return &dto, nil
}

func (s *ComplaintService) load(ctx context.Context, actor shared.Actor, id uuid.UUID) (*welfare.Complaint, error) {
	complaint, err := s.complaintRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(complaint.StudentID) {
		return nil, shared.ErrForbidden
	}
	return complaint, nil
}

func (s *ComplaintService) allowed(contentType string) bool {
	for _, t := range s.config.AllowedTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

func detectContentType(data []byte, declared string) string {
	sniffed := http.DetectContentType(data)
	if i := strings.IndexByte(sniffed, ';'); i >= 0 {
		sniffed = sniffed[:i]
	}
	if sniffed == "application/octet-stream" && declared != "" {
		return strings.ToLower(strings.TrimSpace(declared))
	}
	return sniffed
}

// attachmentKey builds complaints/{id}/{random}{ext}
func attachmentKey(complaintID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("complaints/%s/%s%s", complaintID, uuid.NewString(), ext)
}

func normalizePage(page, size *int) {
	if *page < 1 {
		*page = 1
	}
	if *size < 1 || *size > 100 {
		*size = 20
	}
}
