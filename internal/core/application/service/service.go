package applicationapp

import (
	"context"
	"fmt"
	"strings"

	appEntity "ymate/internal/core/application"
	"ymate/internal/core/category"
	"ymate/internal/core/errs"
	"ymate/internal/core/lifecycle"
	"ymate/internal/core/notification"
	"ymate/internal/core/post"
	"ymate/internal/core/user"
	"ymate/internal/metrics"
	appPort "ymate/internal/ports/application"
	postPort "ymate/internal/ports/post"
	txPort "ymate/internal/ports/tx"
	userPort "ymate/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// Notifier receives notifications once the transition that produced them
// has committed.
type Notifier interface {
	Notify(ctx context.Context, msg notification.Message)
}

// ApplicationService چرخه عمر درخواست‌ها روی پست‌های یک دسته.
type ApplicationService struct {
	Category              category.Category
	PostRepository        postPort.PostRepository
	ApplicationRepository appPort.ApplicationRepository
	UserRepository        userPort.UserRepository
	Transactor            txPort.Transactor
	Sweeper               *lifecycle.Sweeper
	Notifier              Notifier
	Logger                *zap.Logger
}

func NewApplicationService(
	cat category.Category,
	postRepo postPort.PostRepository,
	appRepo appPort.ApplicationRepository,
	userRepo userPort.UserRepository,
	transactor txPort.Transactor,
	sweeper *lifecycle.Sweeper,
	notifier Notifier,
	logger *zap.Logger,
) *ApplicationService {
	return &ApplicationService{
		Category:              cat,
		PostRepository:        postRepo,
		ApplicationRepository: appRepo,
		UserRepository:        userRepo,
		Transactor:            transactor,
		Sweeper:               sweeper,
		Notifier:              notifier,
		Logger:                logger,
	}
}

func (s *ApplicationService) domain() string { return string(s.Category.Name()) }

// Apply ثبت درخواست جدید روی یک پست فعال؛ صاحب پست مطلع می‌شود.
func (s *ApplicationService) Apply(ctx context.Context, studentID int64, postID string, in appPort.ApplicationInput) (*appPort.ApplicationDTO, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, errs.InsufficientData("message is required")
	}

	var (
		out *appPort.ApplicationDTO
		msg notification.Message
	)
	err := lifecycle.Run(ctx, s.Transactor, s.Logger, "application.apply", func(ctx context.Context) error {
		applicant, err := s.loadUser(ctx, studentID)
		if err != nil {
			return err
		}
		p, err := s.loadPost(ctx, postID)
		if err != nil {
			return err
		}
		if _, err := s.Sweeper.Sweep(ctx, p); err != nil {
			return err
		}
		if p.State.IsTerminal() {
			return errs.NotFound("post is no longer open")
		}
		if err := lifecycle.Authorize(applicant.ID, lifecycle.ActionApply, p, nil); err != nil {
			return err
		}

		prior, err := s.ApplicationRepository.FindByUserAndPost(ctx, applicant.ID, p.ID)
		if err != nil {
			return fmt.Errorf("load prior applications: %w", err)
		}
		for _, a := range prior {
			if a.State.Active() {
				return errs.Conflict("already applied to this post")
			}
		}

		a := &appEntity.Application{
			ID:          uuid.Must(uuid.NewV4()),
			PostID:      p.ID,
			ApplicantID: applicant.ID,
			Message:     strings.TrimSpace(in.Message),
			Details:     strings.TrimSpace(in.Details),
			State:       appEntity.StateWaiting,
		}
		if err := s.ApplicationRepository.Create(ctx, a); err != nil {
			return fmt.Errorf("create application: %w", err)
		}

		out = lifecycle.ApplicationDTO(a, applicant)
		title, body := s.Category.Applied(applicant.Nickname, p.Title)
		msg = s.message(p.OwnerID, p.ID, title, body)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Transition(s.domain(), "application", string(appEntity.StateWaiting))
	s.Notifier.Notify(ctx, msg)
	return out, nil
}

// Cancel withdraws the caller's own WAITING application.
func (s *ApplicationService) Cancel(ctx context.Context, studentID int64, applicationID string) (*appPort.ApplicationDTO, error) {
	var out *appPort.ApplicationDTO
	err := lifecycle.Run(ctx, s.Transactor, s.Logger, "application.cancel", func(ctx context.Context) error {
		applicant, err := s.loadUser(ctx, studentID)
		if err != nil {
			return err
		}
		a, err := s.loadApplication(ctx, applicationID)
		if err != nil {
			return err
		}
		p, err := s.loadPost(ctx, a.PostID.String())
		if err != nil {
			return err
		}
		if a, err = s.sweep(ctx, p, a); err != nil {
			return err
		}
		if err := lifecycle.Authorize(applicant.ID, lifecycle.ActionCancel, p, a); err != nil {
			return err
		}
		if a.State != appEntity.StateWaiting {
			return errs.Conflict("application is already " + strings.ToLower(string(a.State)))
		}

		a.State = appEntity.StateCanceled
		if err := s.ApplicationRepository.Save(ctx, a); err != nil {
			return fmt.Errorf("cancel application: %w", err)
		}
		out = lifecycle.ApplicationDTO(a, applicant)
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.Transition(s.domain(), "application", string(appEntity.StateCanceled))
	return out, nil
}

// Accept پذیرش درخواست توسط صاحب پست.
func (s *ApplicationService) Accept(ctx context.Context, studentID int64, applicationID string) (*appPort.ApplicationDTO, error) {
	return s.decide(ctx, studentID, applicationID, appEntity.StateAccepted)
}

// Reject رد درخواست توسط صاحب پست.
func (s *ApplicationService) Reject(ctx context.Context, studentID int64, applicationID string) (*appPort.ApplicationDTO, error) {
	return s.decide(ctx, studentID, applicationID, appEntity.StateRejected)
}

// decide resolves the application, its post and then the caller. Sibling
// applications are left alone.
func (s *ApplicationService) decide(ctx context.Context, studentID int64, applicationID string, to appEntity.State) (*appPort.ApplicationDTO, error) {
	action := lifecycle.ActionAccept
	if to == appEntity.StateRejected {
		action = lifecycle.ActionReject
	}

	var (
		out *appPort.ApplicationDTO
		msg notification.Message
	)
	err := lifecycle.Run(ctx, s.Transactor, s.Logger, "application."+string(action), func(ctx context.Context) error {
		a, err := s.loadApplication(ctx, applicationID)
		if err != nil {
			return err
		}
		p, err := s.loadPost(ctx, a.PostID.String())
		if err != nil {
			return err
		}
		owner, err := s.loadUser(ctx, studentID)
		if err != nil {
			return err
		}
		if a, err = s.sweep(ctx, p, a); err != nil {
			return err
		}
		if err := lifecycle.Authorize(owner.ID, action, p, a); err != nil {
			return err
		}
		if p.State != post.StateActive {
			return errs.Conflict("post is already " + strings.ToLower(string(p.State)))
		}
		if a.State != appEntity.StateWaiting {
			return errs.Conflict("application is already " + strings.ToLower(string(a.State)))
		}

		a.State = to
		if err := s.ApplicationRepository.Save(ctx, a); err != nil {
			return fmt.Errorf("%s application: %w", action, err)
		}

		applicants, err := lifecycle.Users(ctx, s.UserRepository, []uuid.UUID{a.ApplicantID})
		if err != nil {
			return err
		}
		out = lifecycle.ApplicationDTO(a, applicants[a.ApplicantID])

		title, body := s.Category.Accepted(owner.Nickname, p.Title)
		if to == appEntity.StateRejected {
			title, body = s.Category.Rejected(owner.Nickname, p.Title)
		}
		msg = s.message(a.ApplicantID, p.ID, title, body)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Transition(s.domain(), "application", string(to))
	s.Logger.Info("✅ application decided", zap.String("applicationID", out.ID), zap.String("state", string(to)))
	s.Notifier.Notify(ctx, msg)
	return out, nil
}

// ListMyApplications returns the student's applications in this category.
// Their posts are swept first so expired ones read FINISHED.
func (s *ApplicationService) ListMyApplications(ctx context.Context, studentID int64) ([]*appPort.ApplicationDTO, error) {
	var out []*appPort.ApplicationDTO
	err := lifecycle.Run(ctx, s.Transactor, s.Logger, "application.mine", func(ctx context.Context) error {
		applicant, err := s.loadUser(ctx, studentID)
		if err != nil {
			return err
		}
		apps, err := s.ApplicationRepository.FindByUser(ctx, applicant.ID)
		if err != nil {
			return fmt.Errorf("load own applications: %w", err)
		}

		inDomain := make(map[uuid.UUID]bool)
		swept := false
		for _, a := range apps {
			if _, seen := inDomain[a.PostID]; seen {
				continue
			}
			p, err := s.PostRepository.FindByID(ctx, a.PostID)
			if err != nil {
				return fmt.Errorf("load post %s: %w", a.PostID, err)
			}
			inDomain[a.PostID] = p != nil && p.Domain == s.Category.Name()
			if !inDomain[a.PostID] {
				continue
			}
			changed, err := s.Sweeper.Sweep(ctx, p)
			if err != nil {
				return err
			}
			swept = swept || changed
		}
		if swept {
			if apps, err = s.ApplicationRepository.FindByUser(ctx, applicant.ID); err != nil {
				return fmt.Errorf("reload own applications: %w", err)
			}
		}

		out = make([]*appPort.ApplicationDTO, 0, len(apps))
		for _, a := range apps {
			if inDomain[a.PostID] {
				out = append(out, lifecycle.ApplicationDTO(a, applicant))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// sweep finalizes p if it expired and returns a fresh copy of a when the
// cascade may have changed it.
func (s *ApplicationService) sweep(ctx context.Context, p *post.Post, a *appEntity.Application) (*appEntity.Application, error) {
	changed, err := s.Sweeper.Sweep(ctx, p)
	if err != nil || !changed {
		return a, err
	}
	fresh, err := s.ApplicationRepository.FindByID(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("reload application %s: %w", a.ID, err)
	}
	if fresh == nil {
		return nil, errs.NotFound("application not found")
	}
	return fresh, nil
}

func (s *ApplicationService) message(recipient, target uuid.UUID, title, body string) notification.Message {
	return notification.Message{
		RecipientID: recipient,
		Type:        s.domain(),
		TargetID:    target,
		Title:       title,
		Body:        body,
	}
}

func (s *ApplicationService) loadUser(ctx context.Context, studentID int64) (*user.User, error) {
	u, err := s.UserRepository.FindByStudentID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", studentID, err)
	}
	if u == nil {
		return nil, errs.MemberNotFound()
	}
	return u, nil
}

func (s *ApplicationService) loadPost(ctx context.Context, postID string) (*post.Post, error) {
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
	return p, nil
}

func (s *ApplicationService) loadApplication(ctx context.Context, applicationID string) (*appEntity.Application, error) {
	id, err := uuid.FromString(applicationID)
	if err != nil {
		return nil, errs.NotFound("application not found")
	}
	a, err := s.ApplicationRepository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load application %s: %w", applicationID, err)
	}
	if a == nil {
		return nil, errs.NotFound("application not found")
	}
	return a, nil
}
