package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"classbook/internal/portal/domain/entities"
	"classbook/internal/portal/ports/api"
	"classbook/internal/portal/ports/storage"
	"classbook/pkg/logger"
)

// Константы для логирования.
const (
	LogPassStarted    = "auth: resolution pass started"
	LogPassResolved   = "auth: resolution pass resolved"
	LogPassDiscarded  = "auth: stale resolution pass discarded"
	LogNoTokens       = "auth: no stored tokens, anonymous"
	LogProfileFailed  = "auth: profile fetch failed"
	LogLoggedOut      = "auth: logged out"
	LogLoginRequested = "auth: login requested"
	LogClearRetry     = "auth: clearing tokens failed, retrying"

	ErrorSaveTokens  = "failed to save tokens"
	ErrorClearTokens = "failed to clear tokens"
)

// ErrSuperseded возвращается, если результат прохода отброшен более новым проходом или выходом.
var ErrSuperseded = errors.New("auth resolution superseded")

// Controller - единственный владелец состояния аутентификации.
// Все изменения хранилища токенов идут через него.
type Controller struct {
	store    storage.TokenStore
	profiles api.ProfileFetcher
	policy   FailurePolicy

	// storeMu упорядочивает номера проходов, запись в хранилище и публикацию.
	// mu защищает только опубликованное состояние и подписчиков.
	storeMu sync.Mutex
	seq     uint64

	mu       sync.Mutex
	snapshot Snapshot
	resolved chan struct{}
	subs     map[int]chan Snapshot
	nextSub  int
}

// Option настраивает Controller.
type Option func(*Controller)

// WithFailurePolicy задает политику реакции на сбой запроса профиля.
func WithFailurePolicy(policy FailurePolicy) Option {
	return func(c *Controller) {
		if policy != nil {
			c.policy = policy
		}
	}
}

// NewController создает контроллер в состоянии Unresolved.
func NewController(store storage.TokenStore, profiles api.ProfileFetcher, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		profiles: profiles,
		policy:   DemoteOnAnyFailure,
		snapshot: Snapshot{Status: StatusUnresolved},
		resolved: make(chan struct{}),
		subs:     make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot возвращает текущее состояние.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Start выполняет начальное разрешение сессии по сохраненным токенам.
func (c *Controller) Start(ctx context.Context) (Snapshot, error) {
	seq, creds, ok := c.begin(ctx)
	return c.resolve(ctx, seq, creds, ok)
}

// CheckAuth повторно запрашивает профиль. При сбое применяется политика.
func (c *Controller) CheckAuth(ctx context.Context) (Snapshot, error) {
	seq, creds, ok := c.begin(ctx)
	return c.resolve(ctx, seq, creds, ok)
}

// Login сохраняет токены и разрешает сессию с ними.
func (c *Controller) Login(ctx context.Context, access, refresh string) (Snapshot, error) {
	logger.Log(ctx).Info(ctx, LogLoginRequested)

	c.storeMu.Lock()
	c.seq++
	seq := c.seq
	if err := c.store.Save(ctx, access, refresh); err != nil {
		c.storeMu.Unlock()
		return c.Snapshot(), fmt.Errorf("%s: %w", ErrorSaveTokens, err)
	}
	creds, ok := c.store.Read(ctx)
	c.storeMu.Unlock()

	return c.resolve(ctx, seq, creds, ok)
}

// Logout очищает токены и переводит в Anonymous. Незавершенные проходы отбрасываются.
// Если хранилище так и не удалось очистить, состояние все равно Anonymous, а ошибка возвращается.
func (c *Controller) Logout(ctx context.Context) error {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()

	c.seq++
	err := c.clearStore(ctx)
	c.publish(anonymous())

	logger.Log(ctx).Info(ctx, LogLoggedOut, zap.Uint64("seq", c.seq))
	return err
}

// Await блокируется до первого разрешения состояния или отмены ctx.
func (c *Controller) Await(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	resolved := c.resolved
	c.mu.Unlock()

	select {
	case <-resolved:
		return c.Snapshot(), nil
	case <-ctx.Done():
		return c.Snapshot(), ctx.Err()
	}
}

// Subscribe возвращает канал со всеми публикуемыми состояниями и функцию отписки.
// Отстающий подписчик получает только последнее состояние.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan Snapshot, 1)
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
}

func (c *Controller) begin(ctx context.Context) (uint64, entities.Credentials, bool) {
	c.storeMu.Lock()
	defer c.storeMu.Unlock()

	c.seq++
	creds, ok := c.store.Read(ctx)
	return c.seq, creds, ok
}

func (c *Controller) resolve(ctx context.Context, seq uint64, creds entities.Credentials, ok bool) (Snapshot, error) {
	log := logger.Log(ctx).With(zap.Uint64("seq", seq))

	if !ok || !creds.Complete() {
		log.Debug(ctx, LogNoTokens)
		return c.apply(ctx, seq, anonymous(), false)
	}

	log.Debug(ctx, LogPassStarted)

	// Запрос идет без блокировки: параллельные проходы разрешаются по номеру.
	user, err := c.profiles.Me(ctx)
	if err == nil {
		return c.apply(ctx, seq, authenticated(user), false)
	}

	kind := Classify(err)
	action := c.policy(kind)
	log.Warn(ctx, LogProfileFailed,
		zap.String("outcome", kind.String()),
		zap.Bool("clear_tokens", action == ActionDemote),
		zap.Error(err))

	snap, applyErr := c.apply(ctx, seq, anonymous(), action == ActionDemote)
	if applyErr != nil {
		return snap, applyErr
	}
	return snap, err
}

// apply публикует результат прохода seq, если он последний.
func (c *Controller) apply(ctx context.Context, seq uint64, next Snapshot, clearTokens bool) (Snapshot, error) {
	log := logger.Log(ctx)

	c.storeMu.Lock()
	defer c.storeMu.Unlock()

	if seq != c.seq {
		log.Info(ctx, LogPassDiscarded,
			zap.Uint64("seq", seq),
			zap.Uint64("latest", c.seq),
			zap.String("result", next.Status.String()))
		return c.Snapshot(), ErrSuperseded
	}

	var err error
	if clearTokens {
		err = c.clearStore(ctx)
	}

	c.publish(next)

	fields := []zap.Field{zap.Uint64("seq", seq), zap.String("status", next.Status.String())}
	if next.User != nil {
		fields = append(fields, zap.Int64("user_id", next.User.ID), zap.String("role", string(next.User.Role)))
	}
	log.Info(ctx, LogPassResolved, fields...)

	return next, err
}

// clearStore очищает хранилище, повторяя попытку один раз. Вызывать под storeMu.
func (c *Controller) clearStore(ctx context.Context) error {
	err := c.store.Clear(ctx)
	if err == nil {
		return nil
	}
	logger.Log(ctx).Warn(ctx, LogClearRetry, zap.Error(err))
	if err = c.store.Clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrorClearTokens, err)
	}
	return nil
}

func (c *Controller) publish(next Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = next
	if next.Resolved() {
		select {
		case <-c.resolved:
		default:
			close(c.resolved)
		}
	}

	for _, ch := range c.subs {
		select {
		case ch <- next:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- next
		}
	}
}
