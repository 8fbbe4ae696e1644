package service

import (
	"encoding/json"
	"log"
	"time"

	"lumina/internal/model"
	"lumina/internal/repository"
	"lumina/internal/util"
)

type DashboardService interface {
	Stats() (*DashboardStats, error)
	CategoryDistribution() ([]CategorySlice, error)
	TopContributors(limit int) ([]repository.UploaderStat, error)
	RecentActivity(limit int) (*RecentActivity, error)
	PopularContent(limit int) ([]*model.Image, error)
}

// DashboardStats is the admin overview payload
type DashboardStats struct {
	TotalUsers      int64            `json:"total_users"`
	ActiveUsers     int64            `json:"active_users"`
	BannedUsers     int64            `json:"banned_users"`
	NewUsersWeek    int64            `json:"new_users_week"`
	TotalImages     int64            `json:"total_images"`
	NewImagesWeek   int64            `json:"new_images_week"`
	TotalCategories int64            `json:"total_categories"`
	TotalLikes      int64            `json:"total_likes"`
	TotalViews      int64            `json:"total_views"`
	TotalDownloads  int64            `json:"total_downloads"`
	ReportsByStatus map[string]int64 `json:"reports_by_status"`
	OpenReports     int64            `json:"open_reports"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// CategorySlice is one category's share of the library
type CategorySlice struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	ImageCount int64  `json:"image_count"`
}

// RecentActivity bundles the latest uploads and reports
type RecentActivity struct {
	Images  []*model.Image  `json:"images"`
	Reports []*model.Report `json:"reports"`
}

const (
	dashboardStatsCacheKey = "dashboard:stats"
	dashboardStatsCacheTTL = 1 * time.Minute
)

type dashboardService struct {
	userRepo     repository.UserRepository
	imageRepo    repository.ImageRepository
	categoryRepo repository.CategoryRepository
	likeRepo     repository.LikeRepository
	reportRepo   repository.ReportRepository
	redis        *util.RedisClient
}

func NewDashboardService(
	userRepo repository.UserRepository,
	imageRepo repository.ImageRepository,
	categoryRepo repository.CategoryRepository,
	likeRepo repository.LikeRepository,
	reportRepo repository.ReportRepository,
	redis *util.RedisClient,
) DashboardService {
	return &dashboardService{
		userRepo:     userRepo,
		imageRepo:    imageRepo,
		categoryRepo: categoryRepo,
		likeRepo:     likeRepo,
		reportRepo:   reportRepo,
		redis:        redis,
	}
}

func (s *dashboardService) Stats() (*DashboardStats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(dashboardStatsCacheKey); err == nil {
			var stats DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats := &DashboardStats{GeneratedAt: time.Now()}

	var err error
	if stats.TotalUsers, err = s.userRepo.Count(); err != nil {
		return nil, err
	}
	if stats.ActiveUsers, err = s.userRepo.CountByStatus(model.StatusActive); err != nil {
		return nil, err
	}
	if stats.BannedUsers, err = s.userRepo.CountByStatus(model.StatusBanned); err != nil {
		return nil, err
	}
	if stats.NewUsersWeek, err = s.userRepo.CountCreatedSince(7); err != nil {
		return nil, err
	}
	if stats.TotalImages, err = s.imageRepo.Count(); err != nil {
		return nil, err
	}
	if stats.NewImagesWeek, err = s.imageRepo.CountCreatedSince(7); err != nil {
		return nil, err
	}
	if stats.TotalCategories, err = s.categoryRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalLikes, err = s.likeRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalViews, stats.TotalDownloads, _, err = s.imageRepo.SumCounters(); err != nil {
		return nil, err
	}
	if stats.ReportsByStatus, err = s.reportRepo.CountByStatus(); err != nil {
		return nil, err
	}
	stats.OpenReports = stats.ReportsByStatus[model.ReportStatusPending] +
		stats.ReportsByStatus[model.ReportStatusReviewed]

	if s.redis != nil {
		if err := s.redis.Set(dashboardStatsCacheKey, stats, dashboardStatsCacheTTL); err != nil {
			log.Printf("Failed to cache dashboard stats: %v", err)
		}
	}
	return stats, nil
}

func (s *dashboardService) CategoryDistribution() ([]CategorySlice, error) {
	categories, err := s.categoryRepo.List(false)
	if err != nil {
		return nil, err
	}
	slices := make([]CategorySlice, 0, len(categories))
	for _, category := range categories {
		// Counted live so a drifted image_count column does not skew the chart.
		count, err := s.imageRepo.CountByCategory(category.ID)
		if err != nil {
			return nil, err
		}
		slices = append(slices, CategorySlice{
			CategoryID: category.ID,
			Name:       category.Name,
			ImageCount: count,
		})
	}
	return slices, nil
}

func (s *dashboardService) TopContributors(limit int) ([]repository.UploaderStat, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.imageRepo.TopUploaders(limit)
}

func (s *dashboardService) RecentActivity(limit int) (*RecentActivity, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}

	images, _, err := s.imageRepo.List(repository.ImageListParams{
		SortBy:   "created_at",
		SortDesc: true,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	reports, _, err := s.reportRepo.List(repository.ReportListParams{Limit: limit})
	if err != nil {
		return nil, err
	}

	return &RecentActivity{Images: images, Reports: reports}, nil
}

func (s *dashboardService) PopularContent(limit int) ([]*model.Image, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	images, _, err := s.imageRepo.List(repository.ImageListParams{
		ActiveOnly: true,
		SortBy:     "views",
		SortDesc:   true,
		Limit:      limit,
	})
	return images, err
}
