package postapp

import (
	"context"
	"fmt"
	"strings"

	"ymate/internal/core/category"
	"ymate/internal/core/errs"
	"ymate/internal/core/lifecycle"
	postEntity "ymate/internal/core/post"
	"ymate/internal/core/user"
	"ymate/internal/metrics"
	appPort "ymate/internal/ports/application"
	postPort "ymate/internal/ports/post"
	txPort "ymate/internal/ports/tx"
	userPort "ymate/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// PostService چرخه عمر پست‌های یک دسته (delivery یا taxi).
type PostService struct {
	Category              category.Category
	PostRepository        postPort.PostRepository
	ApplicationRepository appPort.ApplicationRepository
	UserRepository        userPort.UserRepository
	Transactor            txPort.Transactor
	Sweeper               *lifecycle.Sweeper
	Logger                *zap.Logger
}

func NewPostService(
	cat category.Category,
	postRepo postPort.PostRepository,
	appRepo appPort.ApplicationRepository,
	userRepo userPort.UserRepository,
	transactor txPort.Transactor,
	sweeper *lifecycle.Sweeper,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		Category:              cat,
		PostRepository:        postRepo,
		ApplicationRepository: appRepo,
		UserRepository:        userRepo,
		Transactor:            transactor,
		Sweeper:               sweeper,
		Logger:                logger,
	}
}

func (s *PostService) domain() string { return string(s.Category.Name()) }

// CreatePost ایجاد یک پست جدید در وضعیت ACTIVE
func (s *PostService) CreatePost(ctx context.Context, studentID int64, in postPort.PostInput) (*postPort.PostDTO, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	var out *postPort.PostDTO
	err := lifecycle.Run(ctx, s.Transactor, s.Logger, "post.create", func(ctx context.Context) error {
		owner, err := s.loadUser(ctx, studentID)
		if err != nil {
			return err
		}

		p := &postEntity.Post{
			ID:      uuid.Must(uuid.NewV4()),
			Domain:  s.Category.Name(),
			OwnerID: owner.ID,
			State:   postEntity.StateActive,
		}
		s.apply(p, in)
		if err := s.PostRepository.Create(ctx, p); err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		out = lifecycle.PostDTO(p, owner)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Transition(s.domain(), "post", string(postEntity.StateActive))
	s.Logger.Info("✅ post created", zap.String("domain", s.domain()), zap.String("postID", out.ID), zap.Int64("owner", studentID))
	return out, nil
}

// UpdatePost overwrites the content fields of a post. State only changes
// through FinishPost and DeletePost.
func (s *PostService) UpdatePost(ctx context.Context, studentID int64, postID string, in postPort.PostInput) (*postPort.PostDTO, error) {
	var out *postPort.PostDTO
	err := lifecycle.Run(ctx, s.Transactor, s.Logger, "post.update", func(ctx context.Context) error {
		caller, err := s.loadUser(ctx, studentID)
		if err != nil {
			return err
		}
		if err := s.validate(in); err != nil {
			return err
		}
		p, err := s.loadPost(ctx, postID)
		if err != nil {
			return err
		}
		if err := lifecycle.Authorize(caller.ID, lifecycle.ActionUpdate, p, nil); err != nil {
			return err
		}

		s.apply(p, in)
		if err := s.PostRepository.Save(ctx, p); err != nil {
			return fmt.Errorf("save post: %w", err)
		}
		out = lifecycle.PostDTO(p, caller)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeletePost soft-deletes an ACTIVE post whose applications are all
// CANCELED or REJECTED.
func (s *PostService) DeletePost(ctx context.Context, studentID int64, postID string) error {
	err := lifecycle.Run(ctx, s.Transactor, s.Logger, "post.delete", func(ctx context.Context) error {
		caller, err := s.loadUser(ctx, studentID)
		if err != nil {
			return err
		}
		p, err := s.loadPost(ctx, postID)
		if err != nil {
			return err
		}
		if err := lifecycle.Authorize(caller.ID, lifecycle.ActionDelete, p, nil); err != nil {
			return err
		}
		if p.State != postEntity.StateActive {
			return errs.Conflict("post is already " + strings.ToLower(string(p.State)))
		}

		apps, err := s.ApplicationRepository.FindByPost(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("load applications: %w", err)
		}
		if !lifecycle.Deletable(apps) {
			return errs.Conflict("post has applications that are waiting, accepted or finished")
		}

		p.State = postEntity.StateDeleted
		if err := s.PostRepository.Save(ctx, p); err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	metrics.Transition(s.domain(), "post", string(postEntity.StateDeleted))
	return nil
}

// FinishPost closes an ACTIVE post and finishes its waiting applications.
func (s *PostService) FinishPost(ctx context.Context, studentID int64, postID string) error {
	err := lifecycle.Run(ctx, s.Transactor, s.Logger, "post.finish", func(ctx context.Context) error {
		caller, err := s.loadUser(ctx, studentID)
		if err != nil {
			return err
		}
		p, err := s.loadPost(ctx, postID)
		if err != nil {
			return err
		}
		if err := lifecycle.Authorize(caller.ID, lifecycle.ActionFinish, p, nil); err != nil {
			return err
		}
		if p.State != postEntity.StateActive {
			return errs.Conflict("post is already " + strings.ToLower(string(p.State)))
		}
		return s.Sweeper.Finalize(ctx, p)
	})
	if err != nil {
		return err
	}
	metrics.Transition(s.domain(), "post", string(postEntity.StateFinished))
	return nil
}

// GetPost returns one post with its applications. Deleted posts are not
// shown and report Conflict.
func (s *PostService) GetPost(ctx context.Context, postID string) (*postPort.PostDTO, error) {
	var out *postPort.PostDTO
	err := lifecycle.Run(ctx, s.Transactor, s.Logger, "post.get", func(ctx context.Context) error {
		p, err := s.loadPost(ctx, postID)
		if err != nil {
			return err
		}
		if p.State == postEntity.StateDeleted {
			return errs.Conflict("post was deleted")
		}

		apps, err := s.ApplicationRepository.FindByPost(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("load applications: %w", err)
		}
		ids := []uuid.UUID{p.OwnerID}
		for _, a := range apps {
			ids = append(ids, a.ApplicantID)
		}
		users, err := lifecycle.Users(ctx, s.UserRepository, ids)
		if err != nil {
			return err
		}

		out = lifecycle.PostDTO(p, users[p.OwnerID])
		out.Applications = make([]*appPort.ApplicationDTO, 0, len(apps))
		for _, a := range apps {
			out.Applications = append(out.Applications, lifecycle.ApplicationDTO(a, users[a.ApplicantID]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListPosts sweeps every expired post of the category, then returns the
// requested state partitions (all of them when states is empty), newest
// first.
func (s *PostService) ListPosts(ctx context.Context, states ...postEntity.State) (*postPort.ListResult, error) {
	if len(states) == 0 {
		states = postEntity.States
	}

	out := &postPort.ListResult{
		Active:   []*postPort.PostDTO{},
		Finished: []*postPort.PostDTO{},
		Deleted:  []*postPort.PostDTO{},
	}
	err := lifecycle.Run(ctx, s.Transactor, s.Logger, "post.list", func(ctx context.Context) error {
		active, err := s.PostRepository.FindByState(ctx, s.Category.Name(), postEntity.StateActive)
		if err != nil {
			return fmt.Errorf("load active posts: %w", err)
		}
		if _, err := s.Sweeper.SweepAll(ctx, active); err != nil {
			return err
		}

		partitions := make(map[postEntity.State][]*postEntity.Post, len(states))
		var ids []uuid.UUID
		for _, st := range states {
			if _, done := partitions[st]; done {
				continue
			}
			posts, err := s.PostRepository.FindByState(ctx, s.Category.Name(), st)
			if err != nil {
				return fmt.Errorf("load %s posts: %w", st, err)
			}
			partitions[st] = posts
			for _, p := range posts {
				ids = append(ids, p.OwnerID)
			}
		}

		users, err := lifecycle.Users(ctx, s.UserRepository, ids)
		if err != nil {
			return err
		}
		for st, posts := range partitions {
			dtos := make([]*postPort.PostDTO, 0, len(posts))
			for _, p := range posts {
				dtos = append(dtos, lifecycle.PostDTO(p, users[p.OwnerID]))
			}
			switch st {
			case postEntity.StateActive:
				out.Active = dtos
			case postEntity.StateFinished:
				out.Finished = dtos
			case postEntity.StateDeleted:
				out.Deleted = dtos
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListMyPosts returns every post the student owns in this category.
func (s *PostService) ListMyPosts(ctx context.Context, studentID int64) ([]*postPort.PostDTO, error) {
	var out []*postPort.PostDTO
	err := lifecycle.Run(ctx, s.Transactor, s.Logger, "post.mine", func(ctx context.Context) error {
		owner, err := s.loadUser(ctx, studentID)
		if err != nil {
			return err
		}
		posts, err := s.PostRepository.FindByOwner(ctx, s.Category.Name(), owner.ID)
		if err != nil {
			return fmt.Errorf("load own posts: %w", err)
		}
		if _, err := s.Sweeper.SweepAll(ctx, posts); err != nil {
			return err
		}
		out = make([]*postPort.PostDTO, 0, len(posts))
		for _, p := range posts {
			out = append(out, lifecycle.PostDTO(p, owner))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostService) validate(in postPort.PostInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return errs.InsufficientData("title is required")
	case strings.TrimSpace(in.Description) == "":
		return errs.InsufficientData("description is required")
	case in.Deadline == nil || in.Deadline.IsZero():
		return errs.InsufficientData("deadline is required")
	}
	if pair, missing := category.MissingPair(s.Category, in.Attributes); missing {
		return errs.InsufficientData(fmt.Sprintf("%s or %s is required", pair.Value, pair.Code))
	}
	return nil
}

func (s *PostService) apply(p *postEntity.Post, in postPort.PostInput) {
	p.Title = strings.TrimSpace(in.Title)
	p.Description = strings.TrimSpace(in.Description)
	p.Deadline = *in.Deadline
	p.Link = strings.TrimSpace(in.Link)
	p.Attributes = category.Normalize(s.Category, in.Attributes)
}

func (s *PostService) loadUser(ctx context.Context, studentID int64) (*user.User, error) {
	u, err := s.UserRepository.FindByStudentID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", studentID, err)
	}
	if u == nil {
		return nil, errs.MemberNotFound()
	}
	return u, nil
}

// loadPost resolves a post of this category and sweeps it.
func (s *PostService) loadPost(ctx context.Context, postID string) (*postEntity.Post, error) {
	id, err := uuid.FromString(postID)
	if err != nil {
		return nil, errs.NotFound("post not found")
	}
	p, err := s.PostRepository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load post %s: %w", postID, err)
	}
	if p == nil || p.Domain != s.Category.Name() {
		return nil, errs.NotFound("post not found")
	}
	if _, err := s.Sweeper.Sweep(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseStates parses a comma separated state filter such as "active,finished".
func ParseStates(csv string) ([]postEntity.State, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, nil
	}
	var out []postEntity.State
	for _, raw := range strings.Split(csv, ",") {
		st, ok := postEntity.ParseState(strings.ToUpper(strings.TrimSpace(raw)))
		if !ok {
			return nil, errs.InsufficientData("unknown state " + raw)
		}
		out = append(out, st)
	}
	return out, nil
}
