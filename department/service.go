package department

import "context"

// Service exposes department lookups.
type Service struct {
	repo Reader
}

// NewService builds a Service using the provided reader.
func NewService(repo Reader) *Service {
	return &Service{repo: repo}
}

// GetByID returns the department for the given identifier.
func (s *Service) GetByID(ctx context.Context, id string) (Department, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every department.
func (s *Service) List(ctx context.Context) ([]Department, error) {
	return s.repo.List(ctx)
}

// OwnerOf returns the department that owns module.
func (s *Service) OwnerOf(ctx context.Context, module string) (Department, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return Department{}, err
	}
	for _, d := range all {
		for _, m := range d.Modules {
			if m == module {
				return d, nil
			}
		}
	}
	return Department{}, ErrNotFound
}
