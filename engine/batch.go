package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/chenyukang/gomoku/config"
)

// requestKey identifies requests that would produce the same answer. The
// board is normalized first so that aliases and separators do not matter.
func requestKey(req Request) (uint64, error) {
	b, err := ParseBoard(req)
	if err != nil {
		return 0, err
	}
	player, err := resolvePlayer(req, b)
	if err != nil {
		return 0, err
	}
	strategy, err := CanonicalName(req.Strategy)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64String(fmt.Sprintf("%dx%d:%s:%d:%s",
		b.Width(), b.Height(), b.String(), player, strategy)), nil
}

// SolveBatch solves independent requests on up to threads goroutines. Each
// goroutine owns its own Engine, so no board or search tree is shared.
// Identical requests are solved once and share the result. The results are
// in request order.
func (e *Engine) SolveBatch(ctx context.Context, reqs []Request, threads int) ([]*Result, error) {
	threads = max(1, threads)
	// Fill in the default strategy so that "" and the configured name
	// dedupe together.
	reqs = lo.Map(reqs, func(r Request, _ int) Request {
		if r.Strategy == "" {
			r.Strategy = e.cfg.GetString(config.ConfigStrategy)
		}
		return r
	})
	keys := make([]uint64, len(reqs))
	for i, r := range reqs {
		k, err := requestKey(r)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		keys[i] = k
	}
	unique := lo.Uniq(keys)
	first := make(map[uint64]int, len(unique))
	for i := len(keys) - 1; i >= 0; i-- {
		first[keys[i]] = i
	}
	log.Debug().Int("requests", len(reqs)).Int("unique", len(unique)).
		Int("threads", threads).Msg("solve-batch")

	solved := make([]*Result, len(unique))
	jobs := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range unique {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for t := 0; t < threads; t++ {
		worker := New(e.cfg)
		g.Go(func() error {
			for i := range jobs {
				idx := first[unique[i]]
				res, err := worker.Solve(gctx, reqs[idx])
				if err != nil {
					return fmt.Errorf("request %d: %w", idx, err)
				}
				solved[i] = res
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byKey := make(map[uint64]*Result, len(unique))
	for i, k := range unique {
		byKey[k] = solved[i]
	}
	return lo.Map(keys, func(k uint64, _ int) *Result {
		return byKey[k]
	}), nil
}

// ParseRequestLine reads "state [player] [strategy]". Blank lines and lines
// starting with # yield ok == false.
func ParseRequestLine(line string, width, height int) (req Request, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Request{}, false, nil
	}
	fields := strings.Fields(line)
	req = Request{State: fields[0], Width: width, Height: height}
	if len(fields) > 1 {
		req.Player, err = strconv.Atoi(fields[1])
		if err != nil {
			return Request{}, false, fmt.Errorf("bad player %q: %w", fields[1], err)
		}
	}
	if len(fields) > 2 {
		req.Strategy = fields[2]
	}
	if len(fields) > 3 {
		return Request{}, false, fmt.Errorf("too many fields in %q", line)
	}
	return req, true, nil
}

// ReadRequests parses one request per line.
func ReadRequests(r io.Reader, width, height int) ([]Request, error) {
	var reqs []Request
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		req, ok, err := ParseRequestLine(scanner.Text(), width, height)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		if ok {
			reqs = append(reqs, req)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return reqs, nil
}
