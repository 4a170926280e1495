package baker

import (
	"context"
	"errors"

	"anoa.com/recipemarket/internal/entity"
	"anoa.com/recipemarket/internal/modules/baker/dto"
	"anoa.com/recipemarket/internal/modules/baker/repository"
	"anoa.com/recipemarket/pkg/apperror"
	"anoa.com/recipemarket/pkg/logger"
	"anoa.com/recipemarket/pkg/storage"
	"github.com/google/uuid"
)

// TopN is the size of the follower and sales leaderboards.
const TopN = 10

type FollowerRanker interface {
	TopBakersByFollowers(ctx context.Context, limit int) ([]uuid.UUID, error)
}

type SalesRanker interface {
	TopSellers(ctx context.Context, limit int) ([]uuid.UUID, error)
}

type BakerService interface {
	Create(ctx context.Context, userID uuid.UUID, req dto.CreateBakerRequest) (*dto.BakerResponse, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*dto.BakerResponse, error)
	List(ctx context.Context, page, limit int) (*dto.BakerListResponse, error)
	Update(ctx context.Context, userID uuid.UUID, req dto.UpdateBakerRequest) (*dto.BakerResponse, error)
	Delete(ctx context.Context, userID uuid.UUID) error
	UpdateProfileImage(ctx context.Context, userID uuid.UUID, file dto.ImageFile) (*dto.BakerResponse, error)
	GetDisplayInfo(ctx context.Context, bakerID uuid.UUID) (*dto.DisplayInfo, error)
	// RefreshRankings recomputes both top-10 flags.
	RefreshRankings(ctx context.Context) error
}

type bakerService struct {
	repo         repository.BakerRepository
	imageStorage storage.ImageStorage
	folder       string
	followers    FollowerRanker
	sales        SalesRanker
}

func NewBakerService(
	repo repository.BakerRepository,
	imageStorage storage.ImageStorage,
	folder string,
	followers FollowerRanker,
	sales SalesRanker,
) BakerService {
	return &bakerService{
		repo:         repo,
		imageStorage: imageStorage,
		folder:       folder + "/bakers",
		followers:    followers,
		sales:        sales,
	}
}

func (s *bakerService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateBakerRequest) (*dto.BakerResponse, error) {
	baker := &entity.Baker{
		UserID:  userID,
		Country: req.Country,
		Flag:    req.Flag,
	}

	if err := s.repo.Create(ctx, baker); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("baker profile already exists")
		}
		return nil, err
	}

	return s.GetByUserID(ctx, userID)
}

func (s *bakerService) GetByUserID(ctx context.Context, userID uuid.UUID) (*dto.BakerResponse, error) {
	baker, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := toResponse(baker)
	return &res, nil
}

func (s *bakerService) List(ctx context.Context, page, limit int) (*dto.BakerListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	bakers, total, err := s.repo.FindAll(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	data := make([]dto.BakerResponse, 0, len(bakers))
	for i := range bakers {
		data = append(data, toResponse(&bakers[i]))
	}

	return &dto.BakerListResponse{Data: data, Total: total}, nil
}

func (s *bakerService) Update(ctx context.Context, userID uuid.UUID, req dto.UpdateBakerRequest) (*dto.BakerResponse, error) {
	baker, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Country != nil {
		baker.Country = *req.Country
	}
	if req.Flag != nil {
		baker.Flag = *req.Flag
	}

	if err := s.repo.Update(ctx, baker); err != nil {
		return nil, err
	}

	res := toResponse(baker)
	return &res, nil
}

func (s *bakerService) Delete(ctx context.Context, userID uuid.UUID) error {
	baker, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	deleted, err := s.repo.DeleteByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperror.NotFound("baker not found")
	}

	if baker.ProfileImage != nil {
		s.deleteImage(ctx, *baker.ProfileImage)
	}
	return nil
}

func (s *bakerService) UpdateProfileImage(ctx context.Context, userID uuid.UUID, file dto.ImageFile) (*dto.BakerResponse, error) {
	if !storage.IsImageFile(file.FileName) {
		return nil, apperror.Validation("profile_image must be an image")
	}

	baker, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.imageStorage.UploadImage(ctx, file.Reader, s.folder, file.FileName)
	if err != nil {
		return nil, apperror.Storage(err)
	}

	if err := s.repo.UpdateProfileImage(ctx, userID, url); err != nil {
		s.deleteImage(ctx, url)
		return nil, err
	}

	if baker.ProfileImage != nil {
		s.deleteImage(ctx, *baker.ProfileImage)
	}

	baker.ProfileImage = &url
	res := toResponse(baker)
	return &res, nil
}

func (s *bakerService) GetDisplayInfo(ctx context.Context, bakerID uuid.UUID) (*dto.DisplayInfo, error) {
	baker, err := s.repo.FindByUserID(ctx, bakerID)
	if err != nil {
		return nil, err
	}

	var (
		fullName, username string
		avatarURL          *string
	)
	if baker.User != nil {
		fullName, username, avatarURL = baker.User.FullName, baker.User.Username, baker.User.AvatarURL
	}

	name, image := entity.DisplayProfile(fullName, username, baker.ProfileImage, avatarURL)
	return &dto.DisplayInfo{Name: name, ProfileImageURL: image}, nil
}

func (s *bakerService) RefreshRankings(ctx context.Context) error {
	topFollowers, err := s.followers.TopBakersByFollowers(ctx, TopN)
	if err != nil {
		return err
	}

	topSales, err := s.sales.TopSellers(ctx, TopN)
	if err != nil {
		return err
	}

	if err := s.repo.SetTopFlags(ctx, topSales, topFollowers); err != nil {
		return err
	}

	logger.Info().
		Int("top_sales", len(topSales)).
		Int("top_followers", len(topFollowers)).
		Msg("baker rankings refreshed")
	return nil
}

func (s *bakerService) deleteImage(ctx context.Context, url string) {
	if err := s.imageStorage.DeleteImage(ctx, url); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("url", url).Msg("failed to delete baker image")
	}
}

func toResponse(b *entity.Baker) dto.BakerResponse {
	res := dto.BakerResponse{
		ID:               b.ID,
		UserID:           b.UserID,
		ProfileImage:     b.ProfileImage,
		Country:          b.Country,
		Flag:             b.Flag,
		IsTop10Sales:     b.IsTop10Sales,
		IsTop10Followers: b.IsTop10Followers,
		Rating:           b.Rating,
		Score:            b.Score,
		CreatedAt:        b.CreatedAt,
	}
	if b.User != nil {
		res.Username = b.User.Username
		res.FullName = b.User.FullName
	}
	return res
}
