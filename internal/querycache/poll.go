package querycache

import (
	"context"
	"time"
)

// startPoll запускает периодическую загрузку записи. Вызывается под c.mu.
// Опрос живёт, пока запись читают чаще, чем раз в gcTime.
func (c *Cache) startPoll(e *entry) {
	pctx, cancel := context.WithCancel(c.ctx)
	e.stopPoll = cancel
	interval := e.policy.RefetchInterval

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-pctx.Done():
				return
			case <-t.C:
			}
			c.mu.Lock()
			if pctx.Err() != nil {
				c.mu.Unlock()
				return
			}
			idle := c.now().Sub(e.lastRead) > c.gcTime
			if idle || e.policy.RefetchInterval <= 0 {
				// никто не смотрит: останавливаемся; следующее чтение запустит опрос заново
				if e.stopPoll != nil {
					e.stopPoll()
					e.stopPoll = nil
				}
				c.mu.Unlock()
				return
			}
			c.mu.Unlock()
			c.load(pctx, e)
		}
	}()
}
