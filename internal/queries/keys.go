// Package queries: реестр ключей кэша и описания запросов к бэкенду.
//
// Иерархия ключей: [ресурс] -> [ресурс, "list"] -> [ресурс, "list", фильтр]
// и [ресурс, "detail", id]. Инвалидация по префиксу [ресурс] задевает все
// отфильтрованные варианты сразу.
package queries

import (
	"guardhouse/internal/backend"
	"guardhouse/internal/models"
	"guardhouse/internal/querycache"
)

type resource string

func (r resource) All() querycache.Key { return querycache.NewKey(string(r)) }

func (r resource) Lists() querycache.Key { return r.All().Append("list") }

func (r resource) Details() querycache.Key { return r.All().Append("detail") }

func (r resource) Detail(id string) querycache.Key { return r.Details().Append(id) }

type staffKeys struct{ resource }

func (k staffKeys) InternalLists() querycache.Key { return k.TypeLists(models.StaffInternal) }

func (k staffKeys) ExternalLists() querycache.Key { return k.TypeLists(models.StaffExternal) }

// TypeLists: списки одного типа сотрудников; неизвестный тип даёт оба списка.
func (k staffKeys) TypeLists(t models.StaffType) querycache.Key {
	if !t.Valid() {
		return k.Lists()
	}
	return k.Lists().Append(t)
}

func (k staffKeys) InternalList(p backend.StaffParams) querycache.Key {
	return k.InternalLists().Append(p)
}

func (k staffKeys) ExternalList(p backend.StaffParams) querycache.Key {
	return k.ExternalLists().Append(p)
}

type shiftKeys struct{ resource }

func (k shiftKeys) List(p backend.ShiftParams) querycache.Key { return k.Lists().Append(p) }

// Today: смены на дату (по умолчанию на сегодня в часовом поясе поста).
func (k shiftKeys) Today(date string) querycache.Key { return k.All().Append("today", date) }

type roleKeys struct{ resource }

func (k roleKeys) List() querycache.Key { return k.Lists() }

type incidentKeys struct{ resource }

func (k incidentKeys) List(p backend.IncidentParams) querycache.Key { return k.Lists().Append(p) }

func (k incidentKeys) Stats() querycache.Key { return k.All().Append("stats") }

type visitorKeys struct{ resource }

func (k visitorKeys) List(p backend.VisitorParams) querycache.Key { return k.Lists().Append(p) }

func (k visitorKeys) Stats() querycache.Key { return k.All().Append("stats") }

type activityKeys struct{ resource }

func (k activityKeys) List(p backend.ActivityParams) querycache.Key { return k.Lists().Append(p) }

type performanceKeys struct{ resource }

func (k performanceKeys) Summary(p backend.PerformanceParams) querycache.Key {
	return k.All().Append("summary", p)
}

type simpleKeys struct{ resource }

func (k simpleKeys) List() querycache.Key { return k.Lists() }

type organizationKeys struct{ resource }

func (k organizationKeys) Info() querycache.Key { return k.All().Append("info") }

var (
	Staff        = staffKeys{"staff"}
	Shifts       = shiftKeys{"shifts"}
	Roles        = roleKeys{"roles"}
	Companies    = simpleKeys{"companies"}
	Gates        = simpleKeys{"gates"}
	Activity     = activityKeys{"activity"}
	Performance  = performanceKeys{"performance"}
	Incidents    = incidentKeys{"incidents"}
	Visitors     = visitorKeys{"visitors"}
	Organization = organizationKeys{"organization"}
)

// Resources: все корни реестра (для аудита и /console/refetch).
func Resources() []querycache.Key {
	return []querycache.Key{
		Staff.All(), Shifts.All(), Roles.All(), Companies.All(), Gates.All(),
		Activity.All(), Performance.All(), Incidents.All(), Visitors.All(), Organization.All(),
	}
}
