package service

import (
	"errors"
	"strings"

	"streamcrew_backend/internal/model"
	"streamcrew_backend/internal/repository"
	"streamcrew_backend/internal/util"

	"gorm.io/gorm"
)

type ReviewService struct {
	Repo           *repository.ReviewRepository
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	Audit          *AuditService
}

func NewReviewService(
	repo *repository.ReviewRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	audit *AuditService,
) *ReviewService {
	return &ReviewService{Repo: repo, EnrollmentRepo: enrollmentRepo, CourseRepo: courseRepo, Audit: audit}
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment" binding:"required"`
}

func validateReview(req ReviewRequest) error {
	errs := util.FieldErrors{}
	if req.Rating < 1 || req.Rating > 5 {
		errs["rating"] = "rating must be between 1 and 5"
	}
	if strings.TrimSpace(req.Comment) == "" {
		errs["comment"] = "comment must not be empty"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Create 每人每课程一条评价，且须已报名
func (s *ReviewService) Create(userID, courseID uint, req ReviewRequest, ip string) (*model.Review, error) {
	if err := validateReview(req); err != nil {
		return nil, err
	}

	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, err
	}
	if _, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	if _, err := s.Repo.FindByUserAndCourse(userID, courseID); err == nil {
		return nil, errors.Join(util.ErrConflict, errors.New("course already reviewed by this user"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &model.Review{
		UserID:   userID,
		CourseID: courseID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	if err := s.Repo.Create(review); err != nil {
		return nil, err
	}

	s.Audit.Log(userID, model.AuditCreate, "reviews", review.ID, req, ip)
	return review, nil
}

func (s *ReviewService) ListByCourse(courseID uint, page, limit int) ([]model.Review, int64, float64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	reviews, total, err := s.Repo.ListByCourse(courseID, page, limit)
	if err != nil {
		return nil, 0, 0, err
	}
	avg, err := s.CourseRepo.AverageRating(courseID)
	if err != nil {
		return nil, 0, 0, err
	}
	return reviews, total, avg, nil
}

// Update 作者本人或工作人员
func (s *ReviewService) Update(actor util.Claims, id uint, req ReviewRequest, ip string) (*model.Review, error) {
	if err := validateReview(req); err != nil {
		return nil, err
	}

	review, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if review.UserID != actor.UserID && !actor.Role.IsStaff() {
		return nil, util.ErrPermissionDenied
	}

	review.Rating = req.Rating
	review.Comment = req.Comment
	if err := s.Repo.Update(review); err != nil {
		return nil, err
	}

	s.Audit.Log(actor.UserID, model.AuditUpdate, "reviews", review.ID, req, ip)
	return review, nil
}

func (s *ReviewService) Delete(actor util.Claims, id uint, ip string) error {
	review, err := s.Repo.FindByID(id)
	if err != nil {
		return err
	}
	if review.UserID != actor.UserID && !actor.Role.IsStaff() {
		return util.ErrPermissionDenied
	}

	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.Audit.Log(actor.UserID, model.AuditDelete, "reviews", id, nil, ip)
	return nil
}
