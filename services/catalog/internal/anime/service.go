// Package anime looks titles up in the upstream catalog API and maps them to
// domain records. Every public method is wrapped with execution logging.
package anime

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/example/anime-catalog/internal/platform/execlog"
	"github.com/example/anime-catalog/internal/platform/httpclient"
	"github.com/example/anime-catalog/internal/platform/logging"
	"github.com/example/anime-catalog/services/catalog/internal/domain"
)

const defaultBaseURL = "https://api.jikan.moe/v4"

type Options struct {
	HTTP    *httpclient.Client
	BaseURL string
	// Logger defaults to the "anime" logger of the process-wide registry.
	Logger *zap.Logger
	Exec   execlog.Config
}

type Service struct {
	http    *httpclient.Client
	baseURL string

	searchByTitle      execlog.BlockingFunc[string, []domain.Info]
	getByID            execlog.BlockingFunc[int, *domain.Info]
	searchByTitleAsync execlog.AsyncFunc[string, []domain.Info]
	getByIDAsync       execlog.AsyncFunc[int, *domain.Info]
}

func New(opts Options) *Service {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	log := opts.Logger
	if log == nil {
		log = logging.Get("anime")
	}

	s := &Service{http: opts.HTTP, baseURL: base}
	s.searchByTitle = execlog.Blocking(log, opts.Exec, "SearchByTitle", s.search)
	s.getByID = execlog.Blocking(log, opts.Exec, "GetByID", s.get)
	s.searchByTitleAsync = execlog.Async(log, opts.Exec, "SearchByTitleAsync",
		func(ctx context.Context, title string) *execlog.Future[[]domain.Info] {
			return execlog.Go(func() ([]domain.Info, error) { return s.search(ctx, title) })
		})
	s.getByIDAsync = execlog.Async(log, opts.Exec, "GetByIDAsync",
		func(ctx context.Context, id int) *execlog.Future[*domain.Info] {
			return execlog.Go(func() (*domain.Info, error) { return s.get(ctx, id) })
		})
	return s
}

// SearchByTitle returns every record matching title. No match is an empty slice.
func (s *Service) SearchByTitle(ctx context.Context, title string) ([]domain.Info, error) {
	return s.searchByTitle(ctx, title)
}

// GetByID returns the record with the given id, or nil when upstream has none.
func (s *Service) GetByID(ctx context.Context, id int) (*domain.Info, error) {
	return s.getByID(ctx, id)
}

func (s *Service) SearchByTitleAsync(ctx context.Context, title string) *execlog.Future[[]domain.Info] {
	return s.searchByTitleAsync(ctx, title)
}

func (s *Service) GetByIDAsync(ctx context.Context, id int) *execlog.Future[*domain.Info] {
	return s.getByIDAsync(ctx, id)
}

func (s *Service) search(ctx context.Context, title string) ([]domain.Info, error) {
	resp, err := s.http.Get(ctx, s.baseURL+"/anime", httpclient.WithQuery("q", title))
	if err != nil {
		return nil, wrapErr(opSearch, err)
	}
	var env envelope
	if err := resp.JSON(&env); err != nil {
		return nil, wrapErr(opSearch, err)
	}
	out, err := decodeList(env.Data)
	if err != nil {
		return nil, wrapErr(opSearch, err)
	}
	return out, nil
}

func (s *Service) get(ctx context.Context, id int) (*domain.Info, error) {
	resp, err := s.http.Get(ctx, s.baseURL+"/anime/"+strconv.Itoa(id))
	if err != nil {
		return nil, wrapErr(opGet, err)
	}
	var env envelope
	if err := resp.JSON(&env); err != nil {
		return nil, wrapErr(opGet, err)
	}
	info, err := decodeOne(env.Data)
	if err != nil {
		return nil, wrapErr(opGet, err)
	}
	return info, nil
}
