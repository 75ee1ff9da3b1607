// AngelaMos | 2026
// service.go

package resume

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/carterperez-dev/jobboard/internal/core"
	"github.com/carterperez-dev/jobboard/internal/middleware"
)

// RefStore reads and writes the user's current resume reference.
type RefStore interface {
	ResumeRef(ctx context.Context, userID int64) (*string, error)
	SetResumeRef(ctx context.Context, userID int64, ref *string) error
}

type Recorder interface {
	Resume(event string)
}

type noopRecorder struct{}

func (noopRecorder) Resume(string) {}

type Upload struct {
	OriginalName string
	Size         int64
	Body         io.Reader
}

// Viewer is who is asking to read a resume.
type Viewer struct {
	UserID int64
	Role   string
}

type Service struct {
	store     Storage
	refs      RefStore
	locker    Locker
	urlPrefix string
	maxBytes  int64
	recorder  Recorder
}

type ServiceConfig struct {
	Storage   Storage
	Refs      RefStore
	Locker    Locker
	URLPrefix string
	MaxBytes  int64
	Recorder  Recorder
}

func NewService(cfg ServiceConfig) *Service {
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = noopRecorder{}
	}
	locker := cfg.Locker
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &Service{
		store:     cfg.Storage,
		refs:      cfg.Refs,
		locker:    locker,
		urlPrefix: strings.TrimRight(cfg.URLPrefix, "/"),
		maxBytes:  cfg.MaxBytes,
		recorder:  recorder,
	}
}

func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

func (s *Service) refFor(name string) string {
	return s.urlPrefix + "/" + name
}

// Upload stores a first resume. A user who already has one must replace
// it instead.
func (s *Service) Upload(ctx context.Context, userID int64, up Upload) (string, error) {
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return "", err
	}
	defer unlock()

	current, err := s.currentRef(ctx, userID)
	if err != nil {
		return "", err
	}
	if current != nil {
		s.recorder.Resume("rejected")
		return "", core.BadRequestError("Resume already uploaded. Use /update-resume")
	}

	name, err := s.persist(ctx, up)
	if err != nil {
		return "", err
	}

	ref := s.refFor(name)
	if err := s.refs.SetResumeRef(ctx, userID, &ref); err != nil {
		s.discard(ctx, name)
		return "", err
	}

	s.recorder.Resume("uploaded")
	return ref, nil
}

// Replace points the user at a new file and then removes the previous
// one. Failure to remove the old file does not fail the call.
func (s *Service) Replace(ctx context.Context, userID int64, up Upload) (string, error) {
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return "", err
	}
	defer unlock()

	current, err := s.currentRef(ctx, userID)
	if err != nil {
		return "", err
	}
	if current == nil {
		s.recorder.Resume("rejected")
		return "", core.BadRequestError("There's no resume to be updated")
	}

	name, err := s.persist(ctx, up)
	if err != nil {
		return "", err
	}

	ref := s.refFor(name)
	if err := s.refs.SetResumeRef(ctx, userID, &ref); err != nil {
		s.discard(ctx, name)
		return "", err
	}

	s.discard(ctx, FileNameFromRef(*current))
	s.recorder.Resume("replaced")
	return ref, nil
}

// Open authorizes and opens a stored resume. The name check runs before
// any storage access.
func (s *Service) Open(ctx context.Context, viewer Viewer, filename string) (io.ReadCloser, error) {
	if !IsStoredName(filename) {
		return nil, core.ForbiddenError("Invalid file name")
	}

	exists, err := s.store.Exists(ctx, filename)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, core.NotFoundError("Resume")
	}

	if viewer.Role != middleware.RoleAdmin {
		current, err := s.currentRef(ctx, viewer.UserID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, core.NotFoundError("Resume")
		}
		if FileNameFromRef(*current) != filename {
			return nil, core.ForbiddenError("You can only access your own resume")
		}
	}

	body, err := s.store.Open(ctx, filename)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("Resume")
		}
		return nil, err
	}
	return body, nil
}

// RemoveForUser clears the user's resume reference and then deletes the
// file. A failed file delete is logged and does not fail the call.
func (s *Service) RemoveForUser(ctx context.Context, userID int64) error {
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := s.currentRef(ctx, userID)
	if err != nil {
		return err
	}
	if current == nil {
		return nil
	}

	if err := s.refs.SetResumeRef(ctx, userID, nil); err != nil {
		return err
	}

	if err := s.DeleteFile(ctx, *current); err != nil {
		slog.WarnContext(ctx, "resume cleanup failed",
			"user_id", userID,
			"file", FileNameFromRef(*current),
			"error", err,
		)
	}

	s.recorder.Resume("deleted")
	return nil
}

// DeleteFile removes the blob behind a reference. A missing blob counts
// as deleted.
func (s *Service) DeleteFile(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	name := FileNameFromRef(ref)
	if !IsStoredName(name) {
		return nil
	}
	return s.store.Delete(ctx, name)
}

func (s *Service) currentRef(ctx context.Context, userID int64) (*string, error) {
	ref, err := s.refs.ResumeRef(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("User")
		}
		return nil, err
	}
	if ref != nil && *ref == "" {
		return nil, nil
	}
	return ref, nil
}

// persist validates the upload and writes it under a fresh name.
func (s *Service) persist(ctx context.Context, up Upload) (string, error) {
	if up.Body == nil {
		return "", core.BadRequestError("Resume file is required")
	}
	if err := ValidateOriginalName(up.OriginalName); err != nil {
		s.recorder.Resume("rejected")
		return "", err
	}
	if s.maxBytes > 0 && up.Size > s.maxBytes {
		s.recorder.Resume("rejected")
		return "", core.BadRequestError("File too large")
	}

	reader := bufio.NewReaderSize(up.Body, sniffLen)
	head, err := reader.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if err := ValidateContent(head); err != nil {
		s.recorder.Resume("rejected")
		return "", err
	}

	var body io.Reader = reader
	if s.maxBytes > 0 {
		body = &limitedReader{r: reader, remaining: s.maxBytes}
	}

	name := NewFileName()
	if err := s.store.Save(ctx, name, body, up.Size); err != nil {
		s.discard(ctx, name)
		if errors.Is(err, errTooLarge) {
			s.recorder.Resume("rejected")
			return "", core.BadRequestError("File too large")
		}
		return "", err
	}
	return name, nil
}

func (s *Service) discard(ctx context.Context, name string) {
	if err := s.store.Delete(ctx, name); err != nil {
		slog.WarnContext(ctx, "resume cleanup failed", "file", name, "error", err)
	}
}

var errTooLarge = errors.New("resume exceeds size limit")

// limitedReader fails instead of truncating once the limit is passed.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, errTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, errTooLarge
	}
	return n, err
}
