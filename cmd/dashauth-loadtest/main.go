package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/dashAuth"
	"github.com/MrEthical07/dashAuth/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type accountState struct {
	id      string
	access  string
	refresh string
	mu      sync.Mutex
}

// nullSender drops all outbound mail. The load test provisions accounts
// through the OAuth path, which never emails.
type nullSender struct{}

func (nullSender) SendOTP(context.Context, string, string, dashAuth.OTPPurpose) error { return nil }

func (nullSender) SendWelcome(context.Context, string, string) error { return nil }

func (nullSender) SendPasswordReset(context.Context, string, string) error { return nil }

func main() {
	var (
		accounts    = flag.Int("accounts", 10000, "number of accounts to seed")
		concurrency = flag.Int("concurrency", 128, "number of concurrent workers")
		ops         = flag.Int("ops", 100000, "operations per phase (authenticate + refresh)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
	)
	flag.Parse()

	if *accounts <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "accounts, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := dashAuth.DefaultConfig()
	cfg.Token.AccessSecret = []byte("loadtest-access-secret-0123456789ab")
	cfg.Token.RefreshSecret = []byte("loadtest-refresh-secret-0123456789a")
	cfg.Audit.Enabled = false

	st, err := store.NewRedisStore(client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build store: %v\n", err)
		os.Exit(1)
	}

	svc, err := dashAuth.New().
		WithConfig(cfg).
		WithStore(st).
		WithEmailSender(nullSender{}).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build service: %v\n", err)
		os.Exit(1)
	}
	defer svc.Close()

	states := make([]accountState, *accounts)
	fmt.Printf("seeding %d accounts...\n", *accounts)
	startSeed := time.Now()
	for i := 0; i < *accounts; i++ {
		outcome, err := svc.HandleOAuthCallback(ctx, dashAuth.OAuthProfile{
			Provider: dashAuth.ProviderGoogle,
			Subject:  fmt.Sprintf("loadtest-sub-%d", i),
			Email:    fmt.Sprintf("loadtest-%d@example.com", i),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
			os.Exit(1)
		}
		states[i] = accountState{
			id:      outcome.Account.ID,
			access:  outcome.Tokens.AccessToken,
			refresh: outcome.Tokens.RefreshToken,
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	authStats := runAuthenticatePhase(ctx, svc, states, *ops, *concurrency)
	refreshStats := runRefreshPhase(ctx, svc, states, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("authenticate", authStats)
	printStats("refresh", refreshStats)
}

func runAuthenticatePhase(ctx context.Context, svc *dashAuth.Service, states []accountState, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(states))
				t0 := time.Now()
				_, err := svc.Authenticate(ctx, states[idx].access)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runRefreshPhase(ctx context.Context, svc *dashAuth.Service, states []accountState, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(states))
				state := &states[idx]

				// Serialize per account: the single refresh slot makes
				// concurrent rotations of the same token lose on purpose.
				state.mu.Lock()
				t0 := time.Now()
				pair, err := svc.Refresh(ctx, state.refresh)
				d := time.Since(t0)
				if err == nil {
					state.refresh = pair.RefreshToken
				} else {
					atomic.AddInt64(&failures, 1)
				}
				state.mu.Unlock()

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
