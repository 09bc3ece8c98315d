package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

var (
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.OrganizationRepository = (*OrganizationRepo)(nil)
	_ repository.VerificationRepository = (*VerificationRepo)(nil)
	_ repository.LikeRepository         = (*LikeRepo)(nil)
	_ repository.MatchRepository        = (*MatchRepo)(nil)
	_ repository.MentorRepository       = (*MentorRepo)(nil)
	_ repository.ResourceRepository     = (*ResourceRepo)(nil)
	_ repository.NewsRepository         = (*NewsRepo)(nil)
	_ repository.ContractRepository     = (*ContractRepo)(nil)
	_ repository.LogRepository          = (*LogRepo)(nil)
	_ repository.StatsRepository        = (*StatsRepo)(nil)
)

// ─── Users ───────────────────────────────────────────────────────────────────

type UserRepo struct{ s handle }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.s.write(func(st *state) error {
		for _, existing := range st.users {
			if existing.TelegramID == u.TelegramID {
				return domain.ErrDuplicate
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.s.read(func(st *state) {
		if u, ok := st.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *UserRepo) GetByTelegramID(_ context.Context, telegramID int64) (*entity.User, error) {
	var out *entity.User
	r.s.read(func(st *state) {
		for _, u := range st.users {
			if u.TelegramID == telegramID {
				out = &u
				return
			}
		}
	})
	return out, nil
}

func (r *UserRepo) UpdateRole(_ context.Context, id, role string) error {
	return r.s.write(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		u.Role = role
		st.users[id] = u
		return nil
	})
}

func (r *UserRepo) ListByRoles(_ context.Context, roles ...string) ([]*entity.User, error) {
	var out []*entity.User
	r.s.read(func(st *state) {
		for _, u := range st.users {
			if slices.Contains(roles, u.Role) {
				out = append(out, &u)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ─── Organizations ───────────────────────────────────────────────────────────

type OrganizationRepo struct{ s handle }

func (r *OrganizationRepo) Create(_ context.Context, o *entity.Organization) error {
	return r.s.write(func(st *state) error {
		for _, existing := range st.organizations {
			if existing.INN == o.INN || existing.UserID == o.UserID {
				return domain.ErrDuplicate
			}
		}
		st.organizations[o.ID] = copyOrg(*o)
		st.orgOrder = append(st.orgOrder, o.ID)
		return nil
	})
}

func (r *OrganizationRepo) find(match func(entity.Organization) bool) *entity.Organization {
	var out *entity.Organization
	r.s.read(func(st *state) {
		for _, id := range st.orgOrder {
			if o := st.organizations[id]; match(o) {
				c := copyOrg(o)
				out = &c
				return
			}
		}
	})
	return out
}

func (r *OrganizationRepo) GetByID(_ context.Context, id string) (*entity.Organization, error) {
	return r.find(func(o entity.Organization) bool { return o.ID == id }), nil
}

func (r *OrganizationRepo) GetByUserID(_ context.Context, userID string) (*entity.Organization, error) {
	return r.find(func(o entity.Organization) bool { return o.UserID == userID }), nil
}

func (r *OrganizationRepo) GetByINN(_ context.Context, inn string) (*entity.Organization, error) {
	return r.find(func(o entity.Organization) bool { return o.INN == inn }), nil
}

func (r *OrganizationRepo) UpdateVerificationStatus(_ context.Context, id, status string) error {
	return r.s.write(func(st *state) error {
		o, ok := st.organizations[id]
		if !ok {
			return domain.ErrNotFound
		}
		o.VerificationStatus = status
		st.organizations[id] = o
		return nil
	})
}

func (r *OrganizationRepo) ListCandidates(_ context.Context, orgID, turnover string) ([]*entity.Organization, error) {
	var out []*entity.Organization
	r.s.read(func(st *state) {
		liked := make(map[string]bool)
		for _, l := range st.likes {
			if l.FromOrgID == orgID {
				liked[l.ToOrgID] = true
			}
		}
		for _, id := range st.orgOrder {
			o := st.organizations[id]
			if o.ID == orgID || o.Turnover != turnover || !o.IsVerified() || liked[o.ID] {
				continue
			}
			c := copyOrg(o)
			out = append(out, &c)
		}
	})
	return out, nil
}

func copyOrg(o entity.Organization) entity.Organization {
	o.CanGive = slices.Clone(o.CanGive)
	o.Need = slices.Clone(o.Need)
	return o
}

// ─── Verifications ───────────────────────────────────────────────────────────

type VerificationRepo struct{ s handle }

func (r *VerificationRepo) Create(_ context.Context, v *entity.Verification) error {
	return r.s.write(func(st *state) error {
		for _, existing := range st.verifications {
			if existing.OrganizationID == v.OrganizationID {
				return domain.ErrDuplicate
			}
		}
		st.verifications[v.ID] = *v
		return nil
	})
}

func (r *VerificationRepo) GetByID(_ context.Context, id string) (*entity.Verification, error) {
	var out *entity.Verification
	r.s.read(func(st *state) {
		if v, ok := st.verifications[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *VerificationRepo) Update(_ context.Context, v *entity.Verification) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.verifications[v.ID]; !ok {
			return domain.ErrNotFound
		}
		st.verifications[v.ID] = *v
		return nil
	})
}

func (r *VerificationRepo) GetView(_ context.Context, id string) (*entity.VerificationView, error) {
	var out *entity.VerificationView
	r.s.read(func(st *state) {
		if v, ok := st.verifications[id]; ok {
			out = view(st, v)
		}
	})
	return out, nil
}

func (r *VerificationRepo) ListPendingViews(_ context.Context) ([]*entity.VerificationView, error) {
	var out []*entity.VerificationView
	r.s.read(func(st *state) {
		for _, v := range st.verifications {
			if v.Status == entity.VerificationPending {
				if vw := view(st, v); vw != nil {
					out = append(out, vw)
				}
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Verification.CreatedAt.Before(out[j].Verification.CreatedAt)
	})
	return out, nil
}

func view(st *state, v entity.Verification) *entity.VerificationView {
	o, ok := st.organizations[v.OrganizationID]
	if !ok {
		return nil
	}
	u, ok := st.users[o.UserID]
	if !ok {
		return nil
	}
	return &entity.VerificationView{Verification: v, Organization: copyOrg(o), Owner: u}
}

// ─── Likes y matches ─────────────────────────────────────────────────────────

type LikeRepo struct{ s handle }

func (r *LikeRepo) Create(_ context.Context, l *entity.Like) error {
	return r.s.write(func(st *state) error {
		st.likes = append(st.likes, *l)
		return nil
	})
}

func (r *LikeRepo) Exists(_ context.Context, fromOrgID, toOrgID string) (bool, error) {
	var ok bool
	r.s.read(func(st *state) {
		ok = slices.ContainsFunc(st.likes, func(l entity.Like) bool {
			return l.FromOrgID == fromOrgID && l.ToOrgID == toOrgID
		})
	})
	return ok, nil
}

type MatchRepo struct{ s handle }

// LockPair no hace nada: Store.Run ya serializa las transacciones.
func (r *MatchRepo) LockPair(context.Context, string, string) error { return nil }

func (r *MatchRepo) CreateIfAbsent(_ context.Context, m *entity.Match) (bool, error) {
	created := false
	err := r.s.write(func(st *state) error {
		for _, existing := range st.matches {
			if existing.IsActive && samePair(existing, m.Org1ID, m.Org2ID) {
				return nil
			}
		}
		st.matches[m.ID] = *m
		created = true
		return nil
	})
	return created, err
}

func (r *MatchRepo) ListActiveByOrganization(_ context.Context, orgID string) ([]*entity.Match, error) {
	var out []*entity.Match
	r.s.read(func(st *state) {
		for _, m := range st.matches {
			if m.IsActive && (m.Org1ID == orgID || m.Org2ID == orgID) {
				out = append(out, &m)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func samePair(m entity.Match, a, b string) bool {
	return (m.Org1ID == a && m.Org2ID == b) || (m.Org1ID == b && m.Org2ID == a)
}

// ─── Mentors y recursos ──────────────────────────────────────────────────────

type MentorRepo struct{ s handle }

func (r *MentorRepo) Create(_ context.Context, m *entity.Mentor) error {
	return r.s.write(func(st *state) error {
		for _, existing := range st.mentors {
			if existing.UserID == m.UserID {
				return domain.ErrDuplicate
			}
		}
		st.mentors[m.ID] = *m
		return nil
	})
}

func (r *MentorRepo) GetByUserID(_ context.Context, userID string) (*entity.Mentor, error) {
	var out *entity.Mentor
	r.s.read(func(st *state) {
		for _, m := range st.mentors {
			if m.UserID == userID {
				out = &m
				return
			}
		}
	})
	return out, nil
}

func (r *MentorRepo) ListAvailable(_ context.Context) ([]*entity.Mentor, error) {
	var out []*entity.Mentor
	r.s.read(func(st *state) {
		for _, m := range st.mentors {
			if m.IsAvailable {
				out = append(out, &m)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type ResourceRepo struct{ s handle }

func (r *ResourceRepo) Create(_ context.Context, res *entity.Resource) error {
	return r.s.write(func(st *state) error {
		st.resources[res.ID] = *res
		return nil
	})
}

func (r *ResourceRepo) ListActive(_ context.Context, resourceType string) ([]*entity.Resource, error) {
	var out []*entity.Resource
	r.s.read(func(st *state) {
		for _, res := range st.resources {
			if res.IsActive && res.Type == resourceType {
				out = append(out, &res)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ResourceRepo) Deactivate(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		res, ok := st.resources[id]
		if !ok {
			return domain.ErrNotFound
		}
		res.IsActive = false
		res.UpdatedAt = time.Now()
		st.resources[id] = res
		return nil
	})
}

// ─── News y contratos ────────────────────────────────────────────────────────

type NewsRepo struct{ s handle }

func (r *NewsRepo) Create(_ context.Context, n *entity.News) error {
	return r.s.write(func(st *state) error {
		c := *n
		c.MediaIDs = slices.Clone(n.MediaIDs)
		st.news[n.ID] = c
		return nil
	})
}

func (r *NewsRepo) GetByID(_ context.Context, id string) (*entity.NewsItem, error) {
	var out *entity.NewsItem
	r.s.read(func(st *state) {
		if n, ok := st.news[id]; ok {
			out = newsItem(st, n)
		}
	})
	return out, nil
}

func (r *NewsRepo) ListRecent(_ context.Context, limit int) ([]*entity.NewsItem, error) {
	out := r.list(func(entity.News) bool { return true })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NewsRepo) ListByOrganization(_ context.Context, orgID string) ([]*entity.NewsItem, error) {
	return r.list(func(n entity.News) bool { return n.OrganizationID == orgID }), nil
}

func (r *NewsRepo) IncrementViews(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		n, ok := st.news[id]
		if !ok {
			return domain.ErrNotFound
		}
		n.ViewsCount++
		st.news[id] = n
		return nil
	})
}

func (r *NewsRepo) list(match func(entity.News) bool) []*entity.NewsItem {
	var out []*entity.NewsItem
	r.s.read(func(st *state) {
		for _, n := range st.news {
			if match(n) {
				out = append(out, newsItem(st, n))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func newsItem(st *state, n entity.News) *entity.NewsItem {
	n.MediaIDs = slices.Clone(n.MediaIDs)
	return &entity.NewsItem{News: n, OrganizationName: st.organizations[n.OrganizationID].Name}
}

type ContractRepo struct{ s handle }

func (r *ContractRepo) Create(_ context.Context, c *entity.Contract) error {
	return r.s.write(func(st *state) error {
		st.contracts[c.ID] = *c
		return nil
	})
}

func (r *ContractRepo) UpdateFileID(_ context.Context, id, fileID string) error {
	return r.s.write(func(st *state) error {
		c, ok := st.contracts[id]
		if !ok {
			return domain.ErrNotFound
		}
		c.FileID = fileID
		st.contracts[id] = c
		return nil
	})
}

func (r *ContractRepo) ListByOrganization(_ context.Context, orgID string) ([]*entity.ContractItem, error) {
	var out []*entity.ContractItem
	r.s.read(func(st *state) {
		for _, c := range st.contracts {
			var other string
			switch orgID {
			case c.CreatorOrgID:
				other = c.RecipientOrgID
			case c.RecipientOrgID:
				other = c.CreatorOrgID
			default:
				continue
			}
			out = append(out, &entity.ContractItem{Contract: c, CounterpartyName: st.organizations[other].Name})
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ─── Auditoría y estadísticas ────────────────────────────────────────────────

type LogRepo struct{ s handle }

func (r *LogRepo) Create(_ context.Context, l *entity.Log) error {
	return r.s.write(func(st *state) error {
		c := *l
		c.Details = maps.Clone(l.Details)
		st.logs = append(st.logs, c)
		return nil
	})
}

func (r *LogRepo) ListRecent(_ context.Context, limit int) ([]*entity.Log, error) {
	var out []*entity.Log
	r.s.read(func(st *state) {
		for i := len(st.logs) - 1; i >= 0; i-- {
			if limit > 0 && len(out) == limit {
				return
			}
			l := st.logs[i]
			out = append(out, &l)
		}
	})
	return out, nil
}

type StatsRepo struct{ s handle }

func (r *StatsRepo) Collect(_ context.Context) (*entity.Statistics, error) {
	var s entity.Statistics
	r.s.read(func(st *state) {
		s.TotalUsers = len(st.users)
		s.TotalOrgs = len(st.organizations)
		for _, o := range st.organizations {
			switch o.VerificationStatus {
			case entity.OrgStatusVerified:
				s.VerifiedOrgs++
			case entity.OrgStatusPending:
				s.PendingOrgs++
			}
		}
		for _, m := range st.matches {
			if m.IsActive {
				s.TotalMatches++
			}
		}
	})
	return &s, nil
}
