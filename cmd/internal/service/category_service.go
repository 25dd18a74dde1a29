package service

import (
	"remino/cmd/internal/contract"
	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/domain/policy"
	"remino/cmd/internal/utils"
	"remino/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type CategoryService struct {
	CategoryRepo CategoryRepository
	Policy       *policy.CategoryPolicy
	Validate     *validator.Validate
}

func NewCategoryService(categoryRepo CategoryRepository, validate *validator.Validate) *CategoryService {
	return &CategoryService{
		CategoryRepo: categoryRepo,
		Policy:       policy.NewCategoryPolicy(),
		Validate:     validate,
	}
}

func (s *CategoryService) ListCategories(actor *entity.User) ([]*contract.CategoryResponse, apierror.ErrorResponse) {
	categories, err := s.CategoryRepo.FindAllByOwner(actor.ID)
	if err != nil {
		log.Errorf("failed to fetch categories of user %d: %v", actor.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.CategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toCategoryResponse(c)
	}
	return resp, nil
}

func (s *CategoryService) GetCategory(actor *entity.User, id int64) (*contract.CategoryResponse, apierror.ErrorResponse) {
	category, apierr := s.fetchCategory(id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr := s.Policy.CanRead(category, actor); apierr != nil {
		return nil, apierr
	}
	return toCategoryResponse(category), nil
}

func (s *CategoryService) CreateCategory(actor *entity.User, req *contract.CategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	if apierr := s.checkName(actor, req.Name, 0); apierr != nil {
		return nil, apierr
	}

	category := &entity.Category{
		UserID:      actor.ID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   utils.NowUTC(),
		User:        *actor,
	}

	if err := s.CategoryRepo.Save(category); err != nil {
		log.Errorf("failed to create category: %v", err)
		return nil, apierror.InternalServerError
	}
	return toCategoryResponse(category), nil
}

func (s *CategoryService) ReplaceCategory(actor *entity.User, id int64, req *contract.CategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}
	return s.UpdateCategory(actor, id, req.ToUpdate())
}

func (s *CategoryService) UpdateCategory(actor *entity.User, id int64, req *contract.UpdateCategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	category, apierr := s.fetchCategory(id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr := s.Policy.CanWrite(category, actor); apierr != nil {
		return nil, apierr
	}

	if req.Name != nil && *req.Name != category.Name {
		if apierr := s.checkName(actor, *req.Name, category.ID); apierr != nil {
			return nil, apierr
		}
	}

	cs := &changeSet{}
	setValue(cs, req.Name, &category.Name)
	setValue(cs, req.Description, &category.Description)

	if cs.dirty {
		if err := s.CategoryRepo.Save(category); err != nil {
			log.Errorf("failed to update category %d: %v", category.ID, err)
			return nil, apierror.InternalServerError
		}
	}
	return toCategoryResponse(category), nil
}

// DeleteCategory refuses to delete a category while notes still reference it.
func (s *CategoryService) DeleteCategory(actor *entity.User, id int64) apierror.ErrorResponse {
	category, apierr := s.fetchCategory(id)
	if apierr != nil {
		return apierr
	}

	if apierr := s.Policy.CanWrite(category, actor); apierr != nil {
		return apierr
	}

	if category.NotesCount > 0 {
		return apierror.CategoryHasNotesError
	}

	if err := s.CategoryRepo.Delete(category); err != nil {
		log.Errorf("failed to delete category %d: %v", category.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *CategoryService) checkName(actor *entity.User, name string, exceptID int64) apierror.ErrorResponse {
	taken, err := s.CategoryRepo.ExistsByOwnerAndName(actor.ID, name, exceptID)
	if err != nil {
		log.Errorf("failed to check category name: %v", err)
		return apierror.InternalServerError
	}

	if taken {
		return apierror.CategoryNameTakenError
	}
	return nil
}

func (s *CategoryService) fetchCategory(id int64) (*entity.Category, apierror.ErrorResponse) {
	category, err := s.CategoryRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch category %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if category == nil {
		return nil, apierror.NotFoundError
	}
	return category, nil
}

func toCategoryResponse(c *entity.Category) *contract.CategoryResponse {
	return &contract.CategoryResponse{
		ID:          c.ID,
		User:        toUserResponse(&c.User),
		Name:        c.Name,
		Description: c.Description,
		NotesCount:  c.NotesCount,
		CreatedAt:   utils.FormatEpoch(c.CreatedAt),
	}
}
