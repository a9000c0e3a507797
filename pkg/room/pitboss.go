package room

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"toes-server/pkg/shuffle"
	"toes-server/pkg/toes"
)

// PitBoss is responsible for dispatching players to tables
type PitBoss struct {
	cfg Config

	lock    sync.RWMutex
	dealers map[string]*Dealer
}

// NewPitBoss returns a new dispatch object
// Every dealer it creates shares cfg.
func NewPitBoss(cfg Config) *PitBoss {
	return &PitBoss{
		cfg:     cfg.withDefaults(),
		dealers: make(map[string]*Dealer),
	}
}

// CreateTable starts a dealer for a new match
// If opts.TableID is empty, a random UUID is assigned.
func (p *PitBoss) CreateTable(opts toes.Options) (*Dealer, error) {
	if opts.TableID == "" {
		opts.TableID = uuid.New().String()
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	if _, found := p.dealers[opts.TableID]; found {
		return nil, fmt.Errorf("%w: %s", ErrTableExists, opts.TableID)
	}

	dealer, err := NewDealer(p.cfg, opts)
	if err != nil {
		return nil, err
	}

	dealer.StartShift()
	p.dealers[opts.TableID] = dealer
	p.cfg.Logger.WithField("table", opts.TableID).Info("table opened")

	return dealer, nil
}

// Dealer returns the dealer running the table
func (p *PitBoss) Dealer(tableID string) (*Dealer, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	dealer, found := p.dealers[tableID]
	return dealer, found
}

// Tables returns the ids of every open table, sorted
func (p *PitBoss) Tables() []string {
	p.lock.RLock()
	defer p.lock.RUnlock()

	ids := make([]string, 0, len(p.dealers))
	for id := range p.dealers {
		ids = append(ids, id)
	}

	sort.Strings(ids)
	return ids
}

// CloseTable ends the dealer's shift and forgets the table
func (p *PitBoss) CloseTable(tableID string) error {
	p.lock.Lock()
	dealer, found := p.dealers[tableID]
	delete(p.dealers, tableID)
	p.lock.Unlock()

	if !found {
		return fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}

	dealer.EndShift()
	p.cfg.Logger.WithField("table", tableID).Info("table closed")

	return nil
}

// Close ends every dealer's shift
func (p *PitBoss) Close() {
	p.lock.Lock()
	dealers := p.dealers
	p.dealers = make(map[string]*Dealer)
	p.lock.Unlock()

	for _, dealer := range dealers {
		dealer.EndShift()
	}
}

// Shuffler returns the shuffle engine every table uses
func (p *PitBoss) Shuffler() *shuffle.Shuffler {
	return p.cfg.Engine.Shuffler()
}
