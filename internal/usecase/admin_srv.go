package usecase

import (
	"context"
	"fmt"

	"facility-rental/internal/data/entity"
	"facility-rental/internal/data/repository"
	"facility-rental/internal/dto/request"
	"facility-rental/internal/dto/response"
	"facility-rental/internal/engine/bundle"
	"facility-rental/internal/engine/pricing"
	"facility-rental/pkg/utils"

	"go.uber.org/zap"
)

// AdminService is the staff side of the rental workflow.
type AdminService interface {
	List(ctx context.Context, req *request.ListRentalsRequest) (*response.PaginatedResponse[response.RentalGroupResponse], error)
	Get(ctx context.Context, id string) (*response.RentalDetailResponse, error)
	Fees(ctx context.Context, id string) (*response.FeesResponse, error)

	Transition(ctx context.Context, id string, action Action, req *request.StatusChangeRequest) (*response.StatusChangeResponse, error)
	// TransitionBundle applies action to every session of a bundle that
	// allows it and skips the rest.
	TransitionBundle(ctx context.Context, batchID string, action Action, req *request.StatusChangeRequest) (*response.StatusChangeResponse, error)

	SetDiscount(ctx context.Context, id string, req *request.DiscountRequest) (*response.RentalDetailResponse, error)
}

type adminService struct {
	repo        *repository.Repository
	engines     *Engines
	infra       Infra
	invalidator *cacheInvalidator
	log         *zap.Logger
}

func NewAdminService(repo *repository.Repository, engines *Engines, infra Infra, invalidator *cacheInvalidator, log *zap.Logger) AdminService {
	return &adminService{
		repo:        repo,
		engines:     engines,
		infra:       infra,
		invalidator: invalidator,
		log:         log.With(zap.String("service", "admin")),
	}
}

func (s *adminService) List(ctx context.Context, req *request.ListRentalsRequest) (*response.PaginatedResponse[response.RentalGroupResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("List rentals validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	filter := repository.RentalFilter{RoomID: req.RoomID, From: req.From, To: req.To}
	rentals, err := s.repo.Rental.FindAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to list rentals", zap.Error(err))
		return nil, fmt.Errorf("list rentals: %w", err)
	}

	groups := bundle.GroupByBatch(values(rentals))
	rows := make([]response.RentalGroupResponse, 0, len(groups))
	for _, g := range groups {
		sessions := g.Sessions
		// A date filter can cut a bundle; its status is judged on all of it.
		if g.BatchID != nil && (req.From != "" || req.To != "") {
			full, err := s.repo.Rental.FindByBatchID(ctx, *g.BatchID)
			if err != nil {
				s.log.Error("Failed to load bundle", zap.Error(err), zap.String("batch_id", g.BatchID.String()))
				return nil, fmt.Errorf("load bundle %s: %w", g.BatchID, err)
			}
			if len(full) > 0 {
				sessions = values(full)
				bundle.Order(sessions)
			}
		}

		summary := bundle.Analyze(sessions)
		if req.Status != "" && string(summary.StatusForFilter) != req.Status {
			continue
		}
		rows = append(rows, response.RentalGroupResponse{
			BatchID:  g.BatchID,
			Summary:  summary,
			Sessions: s.engines.rentalResponses(pointers(sessions)),
		})
	}

	total := len(rows)
	start := min(req.Offset(), total)
	end := min(start+req.Limit(), total)
	return response.NewPaginatedResponse(rows[start:end], req.Page, req.Limit(), int64(total)), nil
}

func (s *adminService) load(ctx context.Context, id string) (*entity.RentalRequest, []*entity.RentalRequest, error) {
	rentalID, err := parseID("rental", id)
	if err != nil {
		return nil, nil, err
	}
	rental, err := findRental(ctx, s.repo, rentalID)
	if err != nil {
		return nil, nil, err
	}
	sessions, err := sessionsOf(ctx, s.repo, rental)
	if err != nil {
		return nil, nil, err
	}
	return rental, sessions, nil
}

func (s *adminService) Get(ctx context.Context, id string) (*response.RentalDetailResponse, error) {
	rental, sessions, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.engines.detail(rental, sessions)
}

func (s *adminService) Fees(ctx context.Context, id string) (*response.FeesResponse, error) {
	rental, sessions, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	fees, err := s.engines.fees(rental, sessions)
	if err != nil {
		return nil, fmt.Errorf("compute fees: %w", err)
	}
	return &fees, nil
}

func (s *adminService) Transition(ctx context.Context, id string, action Action, req *request.StatusChangeRequest) (*response.StatusChangeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	rentalID, err := parseID("rental", id)
	if err != nil {
		return nil, err
	}
	rental, err := findRental(ctx, s.repo, rentalID)
	if err != nil {
		return nil, err
	}
	// A single-session decision leaves the rest of its bundle alone.
	return changeStatus(ctx, s.repo, s.engines, s.infra, s.invalidator, s.log,
		rental, []*entity.RentalRequest{rental}, false, action, req.Reason)
}

func (s *adminService) TransitionBundle(ctx context.Context, batchID string, action Action, req *request.StatusChangeRequest) (*response.StatusChangeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	id, err := parseID("bundle", batchID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.repo.Rental.FindByBatchID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load bundle", zap.Error(err), zap.String("batch_id", batchID))
		return nil, fmt.Errorf("load bundle: %w", err)
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("bundle %s: %w", batchID, ErrNotFound)
	}
	return changeStatus(ctx, s.repo, s.engines, s.infra, s.invalidator, s.log,
		sessions[0], sessions, true, action, req.Reason)
}

// SetDiscount stores a discount normalised against the pre-discount total.
// Bundled sessions share one discount held by the first session.
func (s *adminService) SetDiscount(ctx context.Context, id string, req *request.DiscountRequest) (*response.RentalDetailResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Set discount validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}
	rental, sessions, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if room, ok := s.engines.Catalog.Room(rental.RoomID); ok && room.IsGallery() {
		return nil, fmt.Errorf("%w: gallery rentals use fixed daily rates", ErrDiscountNotAllowed)
	}

	ordered := values(sessions)
	bundle.Order(ordered)
	open := false
	for _, o := range ordered {
		if !o.Status.IsTerminal() {
			open = true
			break
		}
	}
	if !open {
		return nil, fmt.Errorf("%w: every session is already closed", ErrInvalidState)
	}

	var total int64
	if rental.IsBundled() {
		b, err := s.engines.Pricing.BundleFees(ordered)
		if err != nil {
			return nil, fmt.Errorf("compute fees: %w", err)
		}
		total = b.TotalFee
	} else {
		b, err := s.engines.Pricing.SessionFees(*rental)
		if err != nil {
			return nil, fmt.Errorf("compute fees: %w", err)
		}
		total = b.TotalFee
	}

	in := pricing.DiscountInput{
		RatePct: req.RatePct,
		Amount:  req.Amount,
		Mode:    pricing.DiscountMode(req.Mode),
	}
	d := pricing.NormalizeDiscount(total, in)
	reason := req.Reason
	mode := string(in.ResolvedMode())
	if d.Amount == 0 {
		reason, mode = "", ""
	}

	carrier := ordered[0].ID
	err = s.repo.Tx.WithinLock(ctx, repository.RequestLocks(rental.RoomID, lockDates(sessions)...), func(tx *repository.Repository) error {
		for _, session := range sessions {
			switch {
			case session.ID == carrier:
				if err := tx.Rental.UpdateDiscount(ctx, session.ID, mode, d.RatePct, d.Amount, reason); err != nil {
					return err
				}
				session.DiscountMode = mode
				session.DiscountRate, session.DiscountAmount, session.DiscountReason = d.RatePct, d.Amount, reason
			case session.HasDiscount():
				if err := tx.Rental.UpdateDiscount(ctx, session.ID, "", 0, 0, ""); err != nil {
					return err
				}
				session.DiscountMode = ""
				session.DiscountRate, session.DiscountAmount, session.DiscountReason = 0, 0, ""
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to set discount", zap.Error(err), zap.String("rental_id", id))
		return nil, fmt.Errorf("set discount: %w", err)
	}

	s.log.Info("Discount set",
		zap.String("rental_id", id),
		zap.Float64("rate", d.RatePct),
		zap.Int64("amount", d.Amount),
	)

	for _, session := range sessions {
		if session.ID == rental.ID {
			rental = session
		}
	}
	return s.engines.detail(rental, sessions)
}
