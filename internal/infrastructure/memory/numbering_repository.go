package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/domain/repository"
)

// NumberingRepo contadores en memoria.
type NumberingRepo struct {
	mu   sync.Mutex
	seqs map[entity.SequenceKind]entity.NumberingSequence

	// FailSave inyecta fallos de persistencia en tests.
	FailSave func(seq *entity.NumberingSequence) error
}

var _ repository.NumberingRepository = (*NumberingRepo)(nil)

func NewNumberingRepo() *NumberingRepo {
	return &NumberingRepo{seqs: make(map[entity.SequenceKind]entity.NumberingSequence)}
}

func (r *NumberingRepo) Get(_ context.Context, kind entity.SequenceKind) (*entity.NumberingSequence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seq, ok := r.seqs[kind]
	if !ok {
		return nil, nil
	}
	return &seq, nil
}

func (r *NumberingRepo) Save(_ context.Context, seq *entity.NumberingSequence) error {
	if r.FailSave != nil {
		if err := r.FailSave(seq); err != nil {
			return err
		}
	}
	r.mu.Lock()
	r.seqs[seq.Kind] = *seq
	r.mu.Unlock()
	return nil
}
