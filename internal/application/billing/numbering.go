package billing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/frontdesk-api/internal/domain/entity"
	"github.com/jhoicas/frontdesk-api/internal/domain/repository"
)

// Issued número emitido por un lease.
type Issued struct {
	Number   string
	Sequence int64
	Year     int
}

// NumberingService emite números sin huecos por secuencia. El estado autoritativo vive en memoria
// (cargado perezosamente del repositorio); el repositorio se actualiza en cada Commit.
type NumberingService struct {
	repo     repository.NumberingRepository
	defaults map[entity.SequenceKind]entity.NumberingSequence
	log      zerolog.Logger

	mu      sync.Mutex // protege locks y current
	locks   map[entity.SequenceKind]*sync.Mutex
	current map[entity.SequenceKind]*entity.NumberingSequence
}

// NewNumberingService crea el servicio. defaults se usa para sembrar las secuencias que el
// repositorio aún no tiene.
func NewNumberingService(repo repository.NumberingRepository, defaults []entity.NumberingSequence, log zerolog.Logger) *NumberingService {
	d := make(map[entity.SequenceKind]entity.NumberingSequence, len(defaults))
	for _, seq := range defaults {
		d[seq.Kind] = seq
	}
	return &NumberingService{
		repo:     repo,
		defaults: d,
		log:      log.With().Str("component", "numbering").Logger(),
		locks:    make(map[entity.SequenceKind]*sync.Mutex),
		current:  make(map[entity.SequenceKind]*entity.NumberingSequence),
	}
}

func (s *NumberingService) lockFor(kind entity.SequenceKind) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[kind]
	if !ok {
		l = &sync.Mutex{}
		s.locks[kind] = l
	}
	return l
}

// load devuelve una copia del estado actual de la secuencia. Requiere el lock de la secuencia.
func (s *NumberingService) load(ctx context.Context, kind entity.SequenceKind) (entity.NumberingSequence, error) {
	s.mu.Lock()
	cur, ok := s.current[kind]
	s.mu.Unlock()
	if ok {
		return *cur, nil
	}

	stored, err := s.repo.Get(ctx, kind)
	if err != nil {
		return entity.NumberingSequence{}, fmt.Errorf("numeración: leer secuencia %s: %w", kind, err)
	}
	var seq entity.NumberingSequence
	if stored != nil {
		seq = *stored
	} else {
		seq = s.defaults[kind]
		seq.Kind = kind
	}
	if seq.Next < 1 {
		seq.Next = 1
	}
	s.store(seq)
	return seq, nil
}

func (s *NumberingService) store(seq entity.NumberingSequence) {
	s.mu.Lock()
	s.current[seq.Kind] = &seq
	s.mu.Unlock()
}

// Lease reserva en exclusiva una secuencia hasta Commit o Rollback.
// Los números extraídos con Next no existen para nadie más hasta el Commit; un Rollback los
// devuelve sin dejar huecos.
type Lease struct {
	svc    *NumberingService
	lock   *sync.Mutex
	seq    entity.NumberingSequence
	drawn  int
	closed bool
}

// Begin toma el lock de la secuencia. Llamar siempre a Rollback (diferido) o a Commit.
func (s *NumberingService) Begin(ctx context.Context, kind entity.SequenceKind) (*Lease, error) {
	l := s.lockFor(kind)
	l.Lock()
	seq, err := s.load(ctx, kind)
	if err != nil {
		l.Unlock()
		return nil, err
	}
	return &Lease{svc: s, lock: l, seq: seq}, nil
}

// Next extrae el siguiente número para una emisión en now. Aplica el reset anual si procede.
func (l *Lease) Next(now time.Time) Issued {
	year := now.Year()
	if l.seq.YearlyReset && l.seq.LastYear != 0 && l.seq.LastYear != year {
		l.seq.Next = 1
	}
	n := l.seq.Next
	l.seq.Next++
	l.seq.LastYear = year
	l.drawn++
	return Issued{Number: FormatNumber(l.seq, n, year), Sequence: n, Year: year}
}

// Commit publica el contador y lo persiste. Si la persistencia falla el contador en memoria
// ya avanzó (los números fueron emitidos); el desfase se corrige con Reconcile al arrancar.
func (l *Lease) Commit(ctx context.Context, now time.Time) error {
	if l.closed {
		return nil
	}
	defer l.release()
	if l.drawn == 0 {
		return nil
	}
	l.seq.UpdatedAt = now
	l.svc.store(l.seq)
	if err := l.svc.repo.Save(ctx, &l.seq); err != nil {
		l.svc.log.Error().Err(err).Str("sequence", string(l.seq.Kind)).Int64("next", l.seq.Next).
			Msg("no se pudo persistir el contador; se reconciliará al arrancar")
		return fmt.Errorf("numeración: guardar secuencia %s: %w", l.seq.Kind, err)
	}
	return nil
}

// Rollback libera el lock sin publicar nada. Es un no-op tras Commit.
func (l *Lease) Rollback() {
	if l.closed {
		return
	}
	l.release()
}

func (l *Lease) release() {
	l.closed = true
	l.lock.Unlock()
}

// Preview número que emitiría la secuencia en now, sin consumirlo.
func (s *NumberingService) Preview(ctx context.Context, kind entity.SequenceKind, now time.Time) (string, error) {
	lease, err := s.Begin(ctx, kind)
	if err != nil {
		return "", err
	}
	defer lease.Rollback()
	return lease.Next(now).Number, nil
}

// Reconcile eleva el contador si va por detrás de documentos ya emitidos (maxSeq en year).
func (s *NumberingService) Reconcile(ctx context.Context, kind entity.SequenceKind, year int, maxSeq int64) error {
	lease, err := s.Begin(ctx, kind)
	if err != nil {
		return err
	}
	defer lease.Rollback()

	seq := lease.seq
	changed := false
	switch {
	case seq.YearlyReset && year < seq.LastYear:
		// documentos de un año ya cerrado: no afectan al contador vigente
	case seq.YearlyReset && year > seq.LastYear:
		seq.LastYear = year
		seq.Next = maxSeq + 1
		changed = true
	default:
		if seq.Next <= maxSeq {
			seq.Next = maxSeq + 1
			changed = true
		}
		if year > seq.LastYear {
			seq.LastYear = year
			changed = true
		}
	}
	if !changed {
		return nil
	}
	s.log.Warn().Str("sequence", string(kind)).Int64("next", seq.Next).Int("year", seq.LastYear).
		Msg("contador reconciliado con documentos emitidos")
	lease.seq = seq
	lease.drawn = 1
	return lease.Commit(ctx, time.Now().UTC())
}

// ReconcileFromReservations recorre los documentos emitidos y reconcilia las secuencias de
// facturas (estándar + notas de crédito) y proformas.
func (s *NumberingService) ReconcileFromReservations(ctx context.Context, all []*entity.Reservation) error {
	type mark struct {
		year int
		seq  int64
	}
	latest := map[entity.SequenceKind]mark{}
	for _, r := range all {
		for _, inv := range r.Invoices {
			if inv.Sequence <= 0 {
				continue
			}
			kind := SequenceFor(inv.Type)
			m := latest[kind]
			if inv.SequenceYear > m.year || (inv.SequenceYear == m.year && inv.Sequence > m.seq) {
				latest[kind] = mark{year: inv.SequenceYear, seq: inv.Sequence}
			}
		}
	}
	for kind, m := range latest {
		if err := s.Reconcile(ctx, kind, m.year, m.seq); err != nil {
			return err
		}
	}
	return nil
}

// SequenceFor secuencia que numera un tipo de documento.
func SequenceFor(t entity.InvoiceType) entity.SequenceKind {
	if t == entity.InvoiceProforma {
		return entity.SequenceProforma
	}
	return entity.SequenceInvoice
}

// FormatNumber arma [prefijo][sep][año][sep]número-con-relleno omitiendo las partes vacías.
func FormatNumber(seq entity.NumberingSequence, n int64, year int) string {
	parts := make([]string, 0, 3)
	if seq.Prefix != "" {
		parts = append(parts, seq.Prefix)
	}
	if seq.IncludeYear {
		parts = append(parts, strconv.Itoa(year))
	}
	num := strconv.FormatInt(n, 10)
	if pad := seq.Padding - len(num); pad > 0 {
		num = strings.Repeat("0", pad) + num
	}
	parts = append(parts, num)
	return strings.Join(parts, seq.Separator)
}
