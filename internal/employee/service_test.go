package employee

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/hr-management/internal"
)

func TestEmployee(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Employee Module Suite")
}

type mockEmployeeRepository struct {
	employees map[int64]*Employee
	nextID    int64
}

func newMockEmployeeRepository() *mockEmployeeRepository {
	return &mockEmployeeRepository{employees: map[int64]*Employee{}, nextID: 1}
}

func (m *mockEmployeeRepository) Create(_ context.Context, e *Employee) error {
	for _, existing := range m.employees {
		if existing.UserID == e.UserID {
			return ErrDuplicate
		}
	}
	e.ID = m.nextID
	m.nextID++
	m.employees[e.ID] = e
	return nil
}

func (m *mockEmployeeRepository) GetByID(_ context.Context, id int64) (*Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

func (m *mockEmployeeRepository) GetByUserID(_ context.Context, userID int64) (*Employee, error) {
	for _, e := range m.employees {
		if e.UserID == userID {
			return e, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockEmployeeRepository) Update(_ context.Context, e *Employee) error {
	if _, ok := m.employees[e.ID]; !ok {
		return ErrNotFound
	}
	m.employees[e.ID] = e
	return nil
}

func (m *mockEmployeeRepository) Delete(_ context.Context, id int64) error {
	delete(m.employees, id)
	return nil
}

func (m *mockEmployeeRepository) List(_ context.Context, departmentID int64) ([]*Employee, error) {
	var out []*Employee
	for _, e := range m.employees {
		if departmentID == 0 || (e.DepartmentID != nil && *e.DepartmentID == departmentID) {
			out = append(out, e)
		}
	}
	return out, nil
}

var _ = ginkgo.Describe("EmployeeService", func() {
	var (
		service *Service
		repo    *mockEmployeeRepository
	)

	create := func(userID int64) *Employee {
		e, err := service.Create(context.Background(), CreateEmployeeDTO{
			UserID:   userID,
			JobTitle: "Engineer",
			Phone:    "555-0100",
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return e
	}

	ginkgo.BeforeEach(func() {
		repo = newMockEmployeeRepository()
		service = NewService(repo, slog.Default())
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("should create a profile", func() {
			e := create(1)
			gomega.Expect(e.ID).To(gomega.BeNumerically(">", 0))
			gomega.Expect(e.JobTitle).To(gomega.Equal("Engineer"))
		})

		ginkgo.It("should refuse a second profile for the same user", func() {
			create(1)

			_, err := service.Create(context.Background(), CreateEmployeeDTO{UserID: 1, JobTitle: "Designer"})
			gomega.Expect(err).To(gomega.HaveOccurred())
			appErr, ok := err.(*apperrors.AppError)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodeEmployeeExists))
		})

		ginkgo.It("should reject a hire date in the future", func() {
			future := time.Now().AddDate(0, 0, 7)
			_, err := service.Create(context.Background(), CreateEmployeeDTO{
				UserID: 1, JobTitle: "Engineer", HireDate: &future,
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should reject a missing job title", func() {
			_, err := service.Create(context.Background(), CreateEmployeeDTO{UserID: 1})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("GetOwnProfile", func() {
		ginkgo.It("should find the profile bound to the user", func() {
			created := create(7)

			e, err := service.GetOwnProfile(context.Background(), 7)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(e.ID).To(gomega.Equal(created.ID))
		})

		ginkgo.It("should report a user without a profile", func() {
			_, err := service.GetOwnProfile(context.Background(), 7)
			gomega.Expect(err).To(gomega.HaveOccurred())
			appErr, ok := err.(*apperrors.AppError)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodeEmployeeNotFound))
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("should replace the profile fields", func() {
			e := create(1)
			dept := int64(3)

			updated, err := service.Update(context.Background(), e.ID, UpdateEmployeeDTO{
				JobTitle:     "Senior Engineer",
				DepartmentID: &dept,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.JobTitle).To(gomega.Equal("Senior Engineer"))
			gomega.Expect(*updated.DepartmentID).To(gomega.Equal(int64(3)))
		})

		ginkgo.It("should clear an assignment when the reference is omitted", func() {
			e := create(1)
			dept := int64(3)
			_, err := service.Update(context.Background(), e.ID, UpdateEmployeeDTO{JobTitle: "Engineer", DepartmentID: &dept})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			updated, err := service.Update(context.Background(), e.ID, UpdateEmployeeDTO{JobTitle: "Engineer"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.DepartmentID).To(gomega.BeNil())
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should remove the profile", func() {
			e := create(1)
			gomega.Expect(service.Delete(context.Background(), e.ID)).To(gomega.Succeed())

			_, err := service.GetByID(context.Background(), e.ID)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should report an unknown profile", func() {
			err := service.Delete(context.Background(), 99)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("should filter by department", func() {
			dept := int64(3)
			e := create(1)
			_, err := service.Update(context.Background(), e.ID, UpdateEmployeeDTO{JobTitle: "Engineer", DepartmentID: &dept})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			create(2)

			es, err := service.List(context.Background(), 3)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(es).To(gomega.HaveLen(1))
		})
	})
})
