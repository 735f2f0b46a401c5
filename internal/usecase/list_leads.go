package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/query"
)

type ListLeadsOutput struct {
	Data []*entity.Lead `json:"data"`
	Meta query.Meta     `json:"meta"`
}

type ListLeadsUseCase struct {
	Repo LeadRepository
}

func NewListLeadsUseCase(repo LeadRepository) *ListLeadsUseCase {
	return &ListLeadsUseCase{Repo: repo}
}

func (uc *ListLeadsUseCase) Execute(ctx context.Context, req query.ListRequest) (*ListLeadsOutput, error) {
	filter, err := query.BuildFilter(req.Criteria)
	if err != nil {
		return nil, err
	}

	var (
		leads []*entity.Lead
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leads, err = uc.Repo.Find(gctx, filter, req.Sort, req.Pagination.Offset(), req.Pagination.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = uc.Repo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if leads == nil {
		leads = []*entity.Lead{}
	}
	return &ListLeadsOutput{Data: leads, Meta: req.Pagination.Meta(total)}, nil
}
