package pool

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"epool/internal/domain"
	"epool/internal/storage"
)

// FileUpload carries one validated multipart file from the handler. The
// handler enforces the size limit and mime allowlist before this is built,
// so Data is already bounded.
type FileUpload struct {
	Filename string
	Mimetype string
	Size     int64
	Data     []byte
}

// FileService uploads pool assets to object storage and tracks them in the
// database. The object is written first; if the record insert then fails the
// object is deleted best-effort so storage does not accumulate orphans.
type FileService struct {
	files   FileRepositoryInterface
	folders FolderRepositoryInterface
	store   ObjectStorage
}

func NewFileService(
	files FileRepositoryInterface,
	folders FolderRepositoryInterface,
	store ObjectStorage,
) *FileService {
	return &FileService{files: files, folders: folders, store: store}
}

func (s *FileService) UploadFile(ctx context.Context, actorID, folderID string, upload FileUpload) (*domain.PoolFile, error) {
	folder, err := s.folders.GetByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, ErrInternal
	}
	if !folder.CanRead(actorID) {
		return nil, ErrNoFolderAccess
	}

	w, h := aspectRatio(upload.Data)

	result, err := s.store.Upload(ctx, bytes.NewReader(upload.Data), objectName(upload.Filename), storage.UploadOptions{
		Folder:      folder.ID,
		ContentType: upload.Mimetype,
		MakePublic:  true,
	})
	if err != nil {
		zap.L().Error("pool file upload failed", zap.String("folder_id", folder.ID), zap.Error(err))
		return nil, ErrInternal
	}

	file := &domain.PoolFile{
		PoolFolderID: folder.ID,
		Filename:     upload.Filename,
		URL:          result.URL,
		Size:         upload.Size,
		Mimetype:     upload.Mimetype,
		AspectRatioW: w,
		AspectRatioH: h,
	}
	if err := s.files.Create(ctx, file); err != nil {
		if delErr := s.store.Delete(ctx, result.URL, true); delErr != nil {
			zap.L().Warn("orphan cleanup failed", zap.String("url", result.URL), zap.Error(delErr))
		}
		return nil, ErrInternal
	}

	return file, nil
}

func (s *FileService) GetFile(ctx context.Context, actorID, fileID string) (*domain.PoolFile, error) {
	file, err := s.loadFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.PoolFolder == nil || !file.PoolFolder.CanRead(actorID) {
		return nil, ErrNoFolderAccess
	}
	return file, nil
}

func (s *FileService) GetAllFiles(ctx context.Context, offset, limit int) ([]domain.PoolFile, int64, error) {
	files, total, err := s.files.ListPage(ctx, offset, limit)
	if err != nil {
		return nil, 0, ErrInternal
	}
	return files, total, nil
}

// GetUserFiles pages over files living in folders the user owns.
func (s *FileService) GetUserFiles(ctx context.Context, userID string, offset, limit int) ([]domain.PoolFile, int64, error) {
	files, total, err := s.files.ListPageByOwner(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, ErrInternal
	}
	return files, total, nil
}

// DeleteFile removes the record, then the stored object best-effort. A
// storage failure after the record is gone is logged, not surfaced.
func (s *FileService) DeleteFile(ctx context.Context, actorID, fileID string) error {
	file, err := s.loadFile(ctx, fileID)
	if err != nil {
		return err
	}
	if file.PoolFolder == nil || !file.PoolFolder.CanModify(actorID) {
		return ErrNoFilePermission
	}

	if err := s.files.Delete(ctx, file.ID); err != nil {
		return ErrInternal
	}
	if err := s.store.Delete(ctx, file.URL, true); err != nil {
		zap.L().Warn("storage delete failed", zap.String("url", file.URL), zap.Error(err))
	}
	return nil
}

func (s *FileService) loadFile(ctx context.Context, fileID string) (*domain.PoolFile, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, ErrInternal
	}
	return file, nil
}

// aspectRatio decodes the image header and reduces width:height to lowest
// terms. Non-images and undecodable payloads fall back to 1:1.
func aspectRatio(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return 1, 1
	}
	d := gcd(cfg.Width, cfg.Height)
	return cfg.Width / d, cfg.Height / d
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// objectName builds a collision-proof storage name from the original
// filename: unix-nano timestamp, 8 random hex chars, sanitized base.
func objectName(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	base = sanitize(base)
	if base == "" {
		base = "file"
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		suffix = []byte{0, 0, 0, 0}
	}
	return fmt.Sprintf("%d-%s-%s%s", time.Now().UnixNano(), hex.EncodeToString(suffix), base, strings.ToLower(ext))
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
