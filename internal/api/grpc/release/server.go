package release

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ollielynas/reanimator-site/internal/config"
	domain "github.com/ollielynas/reanimator-site/internal/domain/release"
	"github.com/ollielynas/reanimator-site/internal/repository/github"
)

// Resolver abstracts the business operation the transport layer depends on.
type Resolver interface {
	Resolve(ctx context.Context, repo domain.Repository) (*domain.Release, *domain.Asset, error)
	DefaultRepository() domain.Repository
}

// AllowAnyRepository in an allow-list lets callers name any repository.
const AllowAnyRepository = config.AllowAnyRepository

// Server implements ReleaseService.
type Server struct {
	// resolver fetches the release and selects the installer.
	resolver Resolver
	// allowed holds lower-cased owner/name overrides callers may request.
	allowed map[string]struct{}
	// allowAny disables the override check.
	allowAny bool
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAllowedRepositories permits callers to request repos besides the default.
// AllowAnyRepository permits every repository.
func WithAllowedRepositories(repos ...string) ServerOption {
	return func(s *Server) {
		for _, repo := range repos {
			repo = strings.TrimSpace(repo)
			if repo == AllowAnyRepository {
				s.allowAny = true

				continue
			}

			s.allowed[strings.ToLower(repo)] = struct{}{}
		}
	}
}

// NewServer wires the resolver into a gRPC handler.
// Without options only the resolver's default repository is served.
func NewServer(resolver Resolver, opts ...ServerOption) *Server {
	s := &Server{
		resolver: resolver,
		allowed:  make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetLatestRelease resolves the latest release of the requested or default repository.
func (s *Server) GetLatestRelease(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	repo := s.resolver.DefaultRepository()

	if override := strings.TrimSpace(req.GetValue()); override != "" {
		parsed, err := domain.ParseRepository(override)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}

		// Requests are made with the operator's token.
		if !s.permits(parsed) {
			return nil, status.Errorf(codes.PermissionDenied, "repository %s is not served", parsed)
		}

		repo = parsed
	}

	r, selected, err := s.resolver.Resolve(ctx, repo)
	if err != nil {
		return nil, toStatus(err)
	}

	resp, err := ToStruct(r, selected)
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode release")
	}

	return resp, nil
}

// permits reports whether repo may be resolved on behalf of a caller.
func (s *Server) permits(repo domain.Repository) bool {
	if s.allowAny || strings.EqualFold(repo.String(), s.resolver.DefaultRepository().String()) {
		return true
	}

	_, ok := s.allowed[strings.ToLower(repo.String())]

	return ok
}

// toStatus maps resolver errors onto gRPC codes.
func toStatus(err error) error {
	// Context errors go first: transport failures may wrap them too.
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, github.ErrNetwork):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, github.ErrParse):
		return status.Error(codes.Internal, err.Error())
	default:
		return status.Error(codes.Unknown, err.Error())
	}
}
