// Package querycache реализует процессный кэш результатов запросов к бэкенду:
// структурные ключи, окна свежести, инвалидация по префиксу и опрос.
package querycache

import (
	"context"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

var (
	ErrUnknownKey = errors.New("querycache: no entry for key")
	ErrClosed     = errors.New("querycache: closed")
)

// Fetcher загружает данные для одного ключа.
type Fetcher func(ctx context.Context) (any, error)

// Policy: политика кэширования конкретного запроса.
type Policy struct {
	StaleTime       time.Duration // после этого данные отдаются, но перезапрашиваются в фоне
	RefetchInterval time.Duration // >0: опрос, пока запрос наблюдают
	RefetchOnFocus  bool
}

// Result: снимок записи кэша на момент чтения.
type Result struct {
	Data      any
	Err       error
	IsLoading bool // данных нет, загрузка идёт
	IsStale   bool
	UpdatedAt time.Time
}

type entry struct {
	key    Key
	policy Policy
	fetch  Fetcher

	data      any
	hasData   bool
	updatedAt time.Time
	dataGen   uint64

	err    error
	errAt  time.Time
	errGen uint64

	gen         uint64 // растёт при каждой инвалидации
	invalidated bool
	lastRead    time.Time
	stopPoll    context.CancelFunc
}

type Options struct {
	Capacity     int           // максимум записей (LRU)
	GCTime       time.Duration // сколько запрос считается "наблюдаемым" после чтения
	FetchTimeout time.Duration
	Metrics      *Metrics
	Logger       *logrus.Entry
	Now          func() time.Time
}

type Cache struct {
	mu      sync.Mutex
	entries *lru.Cache[string, *entry]
	group   singleflight.Group

	gcTime       time.Duration
	fetchTimeout time.Duration
	metrics      *Metrics
	log          *logrus.Entry
	now          func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

func New(opts Options) (*Cache, error) {
	if opts.Capacity <= 0 {
		opts.Capacity = 1024
	}
	if opts.GCTime <= 0 {
		opts.GCTime = 5 * time.Minute
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		opts.Logger = logrus.NewEntry(l)
	}
	c := &Cache{
		gcTime:       opts.GCTime,
		fetchTimeout: opts.FetchTimeout,
		metrics:      opts.Metrics,
		log:          opts.Logger,
		now:          opts.Now,
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	entries, err := lru.NewWithEvict[string, *entry](opts.Capacity, func(_ string, e *entry) {
		// вызывается под c.mu: останавливаем опрос вытесненной записи
		e.stop()
	})
	if err != nil {
		return nil, err
	}
	c.entries = entries
	return c, nil
}

func (e *entry) stop() {
	if e.stopPoll != nil {
		e.stopPoll()
		e.stopPoll = nil
	}
}

func (e *entry) staleAt(now time.Time) bool {
	return e.invalidated || !e.hasData || now.Sub(e.updatedAt) >= e.policy.StaleTime
}

func (e *entry) result(now time.Time) Result {
	return Result{
		Data:      e.data,
		Err:       e.err,
		IsStale:   e.hasData && e.staleAt(now),
		UpdatedAt: e.updatedAt,
	}
}

// ошибка текущего поколения ещё "свежая": автоматически не повторяем
func (e *entry) freshError(now time.Time) bool {
	return e.err != nil && e.errGen == e.gen && now.Sub(e.errAt) < e.policy.StaleTime
}

// Fetch отдаёт свежие данные из кэша; устаревшие по времени: отдаёт и
// перезапрашивает в фоне; при отсутствии данных или после инвалидации: ждёт загрузку.
func (c *Cache) Fetch(ctx context.Context, key Key, policy Policy, fetch Fetcher) Result {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Result{Err: ErrClosed}
	}
	now := c.now()
	e := c.observe(key, policy, fetch, now)

	if e.freshError(now) {
		res := e.result(now)
		c.mu.Unlock()
		return res
	}
	if e.hasData && !e.invalidated {
		res := e.result(now)
		if res.IsStale {
			c.background(e)
		}
		c.mu.Unlock()
		c.metrics.hit(key.Resource())
		return res
	}
	c.mu.Unlock()

	c.metrics.miss(key.Resource())
	c.load(ctx, e)

	c.mu.Lock()
	defer c.mu.Unlock()
	return e.result(c.now())
}

// FetchNoWait никогда не блокируется: при пустой записи запускает фоновую
// загрузку и возвращает IsLoading.
func (c *Cache) FetchNoWait(key Key, policy Policy, fetch Fetcher) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Result{Err: ErrClosed}
	}
	now := c.now()
	e := c.observe(key, policy, fetch, now)
	res := e.result(now)
	if e.freshError(now) {
		return res
	}
	if !e.hasData {
		res.IsLoading = true
		c.background(e)
		return res
	}
	if res.IsStale {
		c.background(e)
	}
	return res
}

// Peek читает запись без загрузки и без продления наблюдения.
func (c *Cache) Peek(key Key) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Peek(key.String())
	if !ok {
		return Result{}, false
	}
	return e.result(c.now()), true
}

// Refetch выполняет ручной повтор (кнопка "Retry"), то есть загрузку без учёта свежести.
func (c *Cache) Refetch(ctx context.Context, key Key) (Result, error) {
	c.mu.Lock()
	e, ok := c.entries.Get(key.String())
	if ok {
		e.lastRead = c.now()
		// новое поколение, чтобы не присоединиться к старому запросу
		e.gen++
		c.group.Forget(key.String())
	}
	c.mu.Unlock()
	if !ok {
		return Result{}, ErrUnknownKey
	}
	c.load(ctx, e)
	c.mu.Lock()
	defer c.mu.Unlock()
	return e.result(c.now()), nil
}

// Invalidate помечает устаревшими все записи с данным префиксом.
// Следующее чтение такой записи ждёт новую загрузку.
func (c *Cache) Invalidate(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, k := range c.entries.Keys() {
		e, ok := c.entries.Peek(k)
		if !ok || !e.key.HasPrefix(prefix) {
			continue
		}
		e.invalidated = true
		e.gen++
		c.group.Forget(k)
		c.metrics.invalidate(e.key.Resource())
		n++
	}
	if n > 0 {
		c.log.WithField("prefix", prefix.Debug()).Debugf("invalidated %d entries", n)
	}
	return n
}

// Remove удаляет записи с префиксом; результаты их незавершённых загрузок отбрасываются.
func (c *Cache) Remove(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, k := range c.entries.Keys() {
		e, ok := c.entries.Peek(k)
		if !ok || !e.key.HasPrefix(prefix) {
			continue
		}
		c.entries.Remove(k)
		c.group.Forget(k)
		n++
	}
	return n
}

// Clear сбрасывает весь кэш (смена пользователя, выход).
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.entries.Keys() {
		c.group.Forget(k)
	}
	c.entries.Purge()
}

// Focus вызывается, когда окно снова в фокусе. Наблюдаемые устаревшие записи с RefetchOnFocus
// перезапрашиваются в фоне. Возвращает число запущенных загрузок.
func (c *Cache) Focus() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0
	}
	now := c.now()
	n := 0
	for _, k := range c.entries.Keys() {
		e, ok := c.entries.Peek(k)
		if !ok || !e.policy.RefetchOnFocus || now.Sub(e.lastRead) > c.gcTime {
			continue
		}
		if e.staleAt(now) {
			c.background(e)
			n++
		}
	}
	return n
}

func (c *Cache) Len() int { return c.entries.Len() }

// Close останавливает опрос и ждёт фоновые загрузки.
func (c *Cache) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancel()
	c.mu.Unlock()
	c.wg.Wait()
}

// observe находит или создаёт запись; последний наблюдатель задаёт политику и fetcher.
// Вызывается под c.mu.
func (c *Cache) observe(key Key, policy Policy, fetch Fetcher, now time.Time) *entry {
	k := key.String()
	e, ok := c.entries.Get(k)
	if !ok {
		e = &entry{key: key}
		c.entries.Add(k, e)
	}
	e.policy = policy
	e.fetch = fetch
	e.lastRead = now
	if policy.RefetchInterval > 0 && e.stopPoll == nil {
		c.startPoll(e)
	}
	return e
}

// background запускает загрузку вне запроса. Вызывается под c.mu.
func (c *Cache) background(e *entry) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.load(c.ctx, e)
	}()
}

type flight struct {
	v   any
	gen uint64
}

func (c *Cache) load(ctx context.Context, e *entry) {
	c.mu.Lock()
	key, fetch := e.key, e.fetch
	c.mu.Unlock()
	if fetch == nil {
		return
	}

	res := key.Resource()
	out, err, _ := c.group.Do(key.String(), func() (any, error) {
		c.mu.Lock()
		gen := e.gen
		c.mu.Unlock()
		c.metrics.fetch(res)
		// уход со страницы не отменяет загрузку: результат либо ляжет в кэш,
		// либо будет отброшен, если записи уже нет
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		v, err := fetch(fctx)
		return flight{v: v, gen: gen}, err
	})
	f, _ := out.(flight)
	c.store(e, f.gen, f.v, err)
}

func (c *Cache) store(e *entry, gen uint64, v any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := e.key.Resource()
	cur, ok := c.entries.Peek(e.key.String())
	if !ok || cur != e {
		c.metrics.discard(res)
		return
	}
	// ответ старше уже сохранённых данных: последний успешный не перетираем
	if e.hasData && gen < e.dataGen {
		c.metrics.discard(res)
		return
	}
	now := c.now()
	if err != nil {
		c.metrics.fetchError(res)
		e.err = err
		e.errAt = now
		e.errGen = gen
		c.log.WithError(err).WithField("key", e.key.Debug()).Warn("query fetch failed")
		return
	}
	e.data = v
	e.hasData = true
	e.dataGen = gen
	e.updatedAt = now
	e.err = nil
	// инвалидация во время загрузки: данные сохраняем, но запись остаётся устаревшей
	e.invalidated = gen != e.gen
}
