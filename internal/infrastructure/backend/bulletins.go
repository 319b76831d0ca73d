package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ecolenet/school-portal/internal/core/domain"
)

const bulletinsPath = "bulletins/"

// MsgBulletinDownloadFailed is shown when a PDF cannot be fetched, most often
// because the bulletin is not confirmed yet.
const MsgBulletinDownloadFailed = "Erreur lors du téléchargement du bulletin. Vérifiez si le bulletin est confirmé."

// Bulletins wraps the term report endpoints.
type Bulletins struct {
	c *Client
}

func (b *Bulletins) List(ctx context.Context) ([]domain.Bulletin, error) {
	var out []domain.Bulletin
	err := b.c.do(ctx, call{method: http.MethodGet, path: bulletinsPath,
		message: "Erreur lors du chargement des bulletins."}, &out)
	return out, err
}

func (b *Bulletins) Get(ctx context.Context, id int64) (*domain.Bulletin, error) {
	var out domain.Bulletin
	if err := b.c.do(ctx, call{method: http.MethodGet, path: idPath(bulletinsPath, id, ""),
		message: "Bulletin introuvable."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *Bulletins) Create(ctx context.Context, classID int64, termName string) (*domain.Bulletin, error) {
	var out domain.Bulletin
	in := domain.Bulletin{Classe: classID, TermName: termName}
	if err := b.c.do(ctx, call{method: http.MethodPost, path: bulletinsPath, body: in,
		message: "Erreur lors de la création du bulletin."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Confirm makes a bulletin downloadable.
func (b *Bulletins) Confirm(ctx context.Context, id int64) (*domain.Message, error) {
	var out domain.Message
	if err := b.c.do(ctx, call{method: http.MethodPost, path: idPath(bulletinsPath, id, "confirm/"), body: struct{}{},
		message: "Erreur lors de la confirmation du bulletin."}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download is an open PDF stream. The caller must Close it.
type Download struct {
	io.ReadCloser
	ContentType string
	Filename    string
}

// DownloadClass streams the PDF of a whole class.
func (b *Bulletins) DownloadClass(ctx context.Context, id int64) (*Download, error) {
	return b.download(ctx, id, idPath(bulletinsPath, id, "download-pdf/"))
}

// DownloadStudent streams the PDF of one student. The backend answers 403
// while the bulletin is unconfirmed or when the caller may not see student.
func (b *Bulletins) DownloadStudent(ctx context.Context, id, studentID int64) (*Download, error) {
	path := idPath(bulletinsPath, id, "download-pdf-student/"+strconv.FormatInt(studentID, 10)+"/")
	return b.download(ctx, id, path)
}

func (b *Bulletins) download(ctx context.Context, id int64, path string) (*Download, error) {
	resp, err := b.c.send(ctx, call{method: http.MethodGet, path: path, message: MsgBulletinDownloadFailed})
	if err != nil {
		return nil, err
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/pdf"
	}
	return &Download{ReadCloser: resp.Body, ContentType: ct, Filename: BulletinFilename(id)}, nil
}

// BulletinFilename is the name a downloaded bulletin is saved under.
func BulletinFilename(id int64) string {
	return fmt.Sprintf("Bulletin_%d.pdf", id)
}

// SaveBulletin writes d into dir and returns the file path. A partially
// written file is removed.
func SaveBulletin(d *Download, dir string) (string, error) {
	defer d.Close()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("save bulletin: %w", err)
	}
	path := filepath.Join(dir, d.Filename)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("save bulletin: %w", err)
	}
	if _, err := io.Copy(f, d); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("save bulletin: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("save bulletin: %w", err)
	}
	return path, nil
}
