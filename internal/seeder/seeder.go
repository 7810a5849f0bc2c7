package seeder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Additional-Code/exchange/internal/config"
	"github.com/Additional-Code/exchange/internal/dto"
	"github.com/Additional-Code/exchange/internal/entity"
	"github.com/Additional-Code/exchange/internal/repository"
	offerrepo "github.com/Additional-Code/exchange/internal/repository/offer"
	orderrepo "github.com/Additional-Code/exchange/internal/repository/order"
	userrepo "github.com/Additional-Code/exchange/internal/repository/user"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// LoadError reports a seed file that could not be read, parsed or stored.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("seed %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Seeder loads the static data files into storage.
type Seeder struct {
	cfg    config.Seed
	users  *userrepo.Repository
	orders *orderrepo.Repository
	offers *offerrepo.Repository
	logger *zap.Logger
}

// Params defines dependencies for constructing Seeder.
type Params struct {
	fx.In

	Config config.Config
	Users  *userrepo.Repository
	Orders *orderrepo.Repository
	Offers *offerrepo.Repository
	Logger *zap.Logger
}

// New constructs a Seeder writing through the entity repositories.
func New(p Params) *Seeder {
	return &Seeder{
		cfg:    p.Config.Seed,
		users:  p.Users,
		orders: p.Orders,
		offers: p.Offers,
		logger: p.Logger,
	}
}

// Load seeds users, orders and offers in that order. Records whose id is
// already stored are skipped so the seed can be replayed on a persistent store;
// an id repeated within one file fails the load.
func (s *Seeder) Load(ctx context.Context) error {
	if err := load[entity.User, dto.UserRequest](ctx, s, s.cfg.UsersFile, s.users.Insert); err != nil {
		return err
	}
	if err := load[entity.Order, dto.OrderRequest](ctx, s, s.cfg.OrdersFile, s.orders.Insert); err != nil {
		return err
	}
	return load[entity.Offer, dto.OfferRequest](ctx, s, s.cfg.OffersFile, s.offers.Insert)
}

func load[T any, R any, RP dto.RequestOf[R, T]](ctx context.Context, s *Seeder, name string, insert func(context.Context, *T) error) error {
	path := filepath.Join(s.cfg.Dir, name)

	rows, err := readRows[R](path)
	if err != nil {
		return &LoadError{File: path, Err: err}
	}

	inserted, skipped := 0, 0
	seen := make(map[int64]int, len(rows))
	for i := range rows {
		req := RP(&rows[i])
		if err := dto.Validate(req); err != nil {
			return &LoadError{File: path, Err: fmt.Errorf("row %d: %w", i, err)}
		}
		id := *req.Key()
		if first, ok := seen[id]; ok {
			return &LoadError{File: path, Err: fmt.Errorf("row %d: id %d repeats row %d", i, id, first)}
		}
		seen[id] = i

		// ids stored before this load are kept as they are.
		err := insert(ctx, req.Entity(id))
		if errors.Is(err, repository.ErrDuplicateID) {
			skipped++
			continue
		}
		if err != nil {
			return &LoadError{File: path, Err: fmt.Errorf("row %d: %w", i, err)}
		}
		inserted++
	}

	if s.logger != nil {
		s.logger.Info("seeded records",
			zap.String("file", path),
			zap.Int("inserted", inserted),
			zap.Int("skipped", skipped),
		)
	}
	return nil
}

func readRows[R any](path string) ([]R, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []R
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(raw, &rows)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &rows)
	default:
		return nil, fmt.Errorf("unsupported seed format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return rows, nil
}
