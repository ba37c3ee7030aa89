package payslip

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/hr-management/internal"
)

func TestPayslip(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Payslip Module Suite")
}

type mockPayslipRepository struct {
	payslips   map[int64]*Payslip
	nextID     int64
	failCreate bool
}

func newMockPayslipRepository() *mockPayslipRepository {
	return &mockPayslipRepository{payslips: map[int64]*Payslip{}, nextID: 1}
}

func (m *mockPayslipRepository) Create(_ context.Context, p *Payslip) error {
	if m.failCreate {
		return errors.New("insert failed")
	}
	p.ID = m.nextID
	m.nextID++
	m.payslips[p.ID] = p
	return nil
}

func (m *mockPayslipRepository) GetByID(_ context.Context, id int64) (*Payslip, error) {
	if p, ok := m.payslips[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (m *mockPayslipRepository) ListForUser(_ context.Context, userID int64) ([]*Payslip, error) {
	var out []*Payslip
	for _, p := range m.payslips {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPayslipRepository) Delete(_ context.Context, id int64) error {
	delete(m.payslips, id)
	return nil
}

type mockFileStore struct {
	files map[string][]byte
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{files: map[string][]byte{}}
}

func (m *mockFileStore) Save(storedName string, r io.Reader) (int64, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.files[storedName] = b
	return int64(len(b)), nil
}

func (m *mockFileStore) Open(storedName string) (io.ReadCloser, error) {
	b, ok := m.files[storedName]
	if !ok {
		return nil, errors.New("file not found")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *mockFileStore) Remove(storedName string) error {
	delete(m.files, storedName)
	return nil
}

var _ = ginkgo.Describe("PayslipService", func() {
	var (
		service *Service
		repo    *mockPayslipRepository
		store   *mockFileStore
	)

	hr := &apperrors.SessionUser{ID: 10, Role: "hr"}
	owner := &apperrors.SessionUser{ID: 1, Role: "employee"}
	other := &apperrors.SessionUser{ID: 2, Role: "employee"}

	upload := func(userID int64) *Payslip {
		p, err := service.Upload(context.Background(), hr, userID, "2026-08", "payslip.pdf", "application/pdf", strings.NewReader("pdf bytes"))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return p
	}

	ginkgo.BeforeEach(func() {
		repo = newMockPayslipRepository()
		store = newMockFileStore()
		service = NewService(repo, store, slog.Default())
	})

	ginkgo.Describe("Upload", func() {
		ginkgo.It("should store the file and the metadata row", func() {
			p := upload(1)

			gomega.Expect(p.StoredName).ToNot(gomega.BeEmpty())
			gomega.Expect(p.SizeBytes).To(gomega.Equal(int64(len("pdf bytes"))))
			gomega.Expect(p.UploadedBy).To(gomega.Equal(int64(10)))
			gomega.Expect(store.files).To(gomega.HaveKey(p.StoredName))
		})

		ginkgo.It("should refuse an uploader without HR powers", func() {
			_, err := service.Upload(context.Background(), owner, 1, "2026-08", "payslip.pdf", "application/pdf", strings.NewReader("x"))
			gomega.Expect(err).To(gomega.Equal(apperrors.ErrInsufficientRole))
		})

		ginkgo.It("should reject a malformed period", func() {
			for _, period := range []string{"2026-13", "2026/08", "08-2026", "202608"} {
				_, err := service.Upload(context.Background(), hr, 1, period, "payslip.pdf", "application/pdf", strings.NewReader("x"))
				gomega.Expect(err).To(gomega.HaveOccurred(), "period %s", period)
			}
		})

		ginkgo.It("should remove the stored file when the metadata write fails", func() {
			repo.failCreate = true

			_, err := service.Upload(context.Background(), hr, 1, "2026-08", "payslip.pdf", "application/pdf", strings.NewReader("x"))
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(store.files).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Download", func() {
		ginkgo.It("should let the owner download their payslip", func() {
			p := upload(1)

			meta, rc, err := service.Download(context.Background(), owner, p.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			defer rc.Close()

			gomega.Expect(meta.OriginalFilename).To(gomega.Equal("payslip.pdf"))
			content, err := io.ReadAll(rc)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(string(content)).To(gomega.Equal("pdf bytes"))
		})

		ginkgo.It("should refuse another employee", func() {
			p := upload(1)

			_, _, err := service.Download(context.Background(), other, p.ID)
			gomega.Expect(err).To(gomega.Equal(apperrors.ErrInsufficientRole))
		})

		ginkgo.It("should let HR staff download anyone's payslip", func() {
			p := upload(1)

			_, rc, err := service.Download(context.Background(), hr, p.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			rc.Close()
		})

		ginkgo.It("should report an unknown payslip", func() {
			_, _, err := service.Download(context.Background(), hr, 99)
			gomega.Expect(err).To(gomega.HaveOccurred())
			appErr, ok := err.(*apperrors.AppError)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodePayslipNotFound))
		})
	})

	ginkgo.Describe("ListForUser", func() {
		ginkgo.It("should let a user list their own payslips", func() {
			upload(1)
			upload(2)

			ps, err := service.ListForUser(context.Background(), owner, 1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(ps).To(gomega.HaveLen(1))
		})

		ginkgo.It("should refuse an employee listing another user's payslips", func() {
			_, err := service.ListForUser(context.Background(), other, 1)
			gomega.Expect(err).To(gomega.Equal(apperrors.ErrInsufficientRole))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should remove the row and the file", func() {
			p := upload(1)

			gomega.Expect(service.Delete(context.Background(), hr, p.ID)).To(gomega.Succeed())
			gomega.Expect(repo.payslips).To(gomega.BeEmpty())
			gomega.Expect(store.files).To(gomega.BeEmpty())
		})

		ginkgo.It("should refuse a requester without HR powers", func() {
			p := upload(1)

			err := service.Delete(context.Background(), owner, p.ID)
			gomega.Expect(err).To(gomega.Equal(apperrors.ErrInsufficientRole))
		})
	})
})
