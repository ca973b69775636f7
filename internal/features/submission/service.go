package submission

import (
	"context"
)

type SubmissionService interface {
	GetSubmission(ctx context.Context, id string) (*Submission, error)
}

type SubmissionServiceImpl struct {
	Repo SubmissionRepository
}

func NewSubmissionService(repo SubmissionRepository) SubmissionService {
	return &SubmissionServiceImpl{Repo: repo}
}

func (s *SubmissionServiceImpl) GetSubmission(ctx context.Context, id string) (*Submission, error) {
	return s.Repo.GetByID(ctx, id)
}
