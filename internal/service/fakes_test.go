package service

import (
	"context"
	"fmt"
	"time"

	"github.com/taskora/taskora-backend/internal/repository"
	"github.com/taskora/taskora-backend/internal/types"
)

// In-memory repository fakes used across the service tests. They implement
// just enough of each interface's semantics (absence returns nil, nil) to
// drive the services without a database.

// ============================================
// Organization repository fake
// ============================================

type fakeOrgRepo struct {
	orgs    map[string]*repository.Organization
	members []*repository.OrganizationMember
	nextID  int
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{orgs: make(map[string]*repository.Organization)}
}

func (r *fakeOrgRepo) addOrg(id, name string) *repository.Organization {
	org := &repository.Organization{ID: id, Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.orgs[id] = org
	return org
}

func (r *fakeOrgRepo) addMember(orgID, userID string, role types.OrgRole) {
	r.members = append(r.members, &repository.OrganizationMember{
		ID:             fmt.Sprintf("om-%d", len(r.members)+1),
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
		JoinedAt:       time.Now(),
	})
}

func (r *fakeOrgRepo) Create(ctx context.Context, org *repository.Organization) error {
	r.nextID++
	org.ID = fmt.Sprintf("org-%d", r.nextID)
	org.CreatedAt = time.Now()
	org.UpdatedAt = org.CreatedAt
	r.orgs[org.ID] = org
	return nil
}

func (r *fakeOrgRepo) FindByID(ctx context.Context, id string) (*repository.Organization, error) {
	return r.orgs[id], nil
}

func (r *fakeOrgRepo) FindByUserID(ctx context.Context, userID string) ([]*repository.Organization, error) {
	var orgs []*repository.Organization
	for _, m := range r.members {
		if m.UserID == userID {
			if org := r.orgs[m.OrganizationID]; org != nil {
				orgs = append(orgs, org)
			}
		}
	}
	return orgs, nil
}

func (r *fakeOrgRepo) Update(ctx context.Context, org *repository.Organization) error {
	r.orgs[org.ID] = org
	return nil
}

func (r *fakeOrgRepo) Delete(ctx context.Context, id string) error {
	delete(r.orgs, id)
	return nil
}

func (r *fakeOrgRepo) AddMember(ctx context.Context, member *repository.OrganizationMember) error {
	member.ID = fmt.Sprintf("om-%d", len(r.members)+1)
	member.JoinedAt = time.Now()
	r.members = append(r.members, member)
	return nil
}

func (r *fakeOrgRepo) FindMembers(ctx context.Context, orgID string) ([]*repository.OrganizationMember, error) {
	var out []*repository.OrganizationMember
	for _, m := range r.members {
		if m.OrganizationID == orgID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeOrgRepo) FindMember(ctx context.Context, orgID, userID string) (*repository.OrganizationMember, error) {
	for _, m := range r.members {
		if m.OrganizationID == orgID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeOrgRepo) FindMemberUserIDs(ctx context.Context, orgID string) ([]string, error) {
	var ids []string
	for _, m := range r.members {
		if m.OrganizationID == orgID {
			ids = append(ids, m.UserID)
		}
	}
	return ids, nil
}

func (r *fakeOrgRepo) UpdateMemberRole(ctx context.Context, orgID, userID string, role types.OrgRole) error {
	for _, m := range r.members {
		if m.OrganizationID == orgID && m.UserID == userID {
			m.Role = role
			return nil
		}
	}
	return nil
}

func (r *fakeOrgRepo) RemoveMember(ctx context.Context, orgID, userID string) error {
	for i, m := range r.members {
		if m.OrganizationID == orgID && m.UserID == userID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeOrgRepo) CountOwners(ctx context.Context, orgID string) (int, error) {
	count := 0
	for _, m := range r.members {
		if m.OrganizationID == orgID && m.Role == types.OrgRoleOwner {
			count++
		}
	}
	return count, nil
}

func (r *fakeOrgRepo) FindActiveIDs(ctx context.Context, within time.Duration) ([]string, error) {
	return nil, nil
}

// ============================================
// Project repository fake
// ============================================

type fakeProjectRepo struct {
	projects map[string]*repository.Project
	members  []*repository.ProjectMember
	nextNum  map[string]int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects: make(map[string]*repository.Project),
		nextNum:  make(map[string]int),
	}
}

func (r *fakeProjectRepo) addProject(id, orgID, name, key string, leadID *string) *repository.Project {
	p := &repository.Project{
		ID:             id,
		OrganizationID: orgID,
		Name:           name,
		Key:            key,
		LeadID:         leadID,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	r.projects[id] = p
	return p
}

func (r *fakeProjectRepo) addMember(projectID, userID string) {
	r.members = append(r.members, &repository.ProjectMember{
		ID:        fmt.Sprintf("pm-%d", len(r.members)+1),
		ProjectID: projectID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	})
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *repository.Project) error {
	project.ID = fmt.Sprintf("proj-%d", len(r.projects)+1)
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	r.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) FindByID(ctx context.Context, id string) (*repository.Project, error) {
	return r.projects[id], nil
}

func (r *fakeProjectRepo) FindByOrganizationID(ctx context.Context, orgID string) ([]*repository.Project, error) {
	var out []*repository.Project
	for _, p := range r.projects {
		if p.OrganizationID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) FindByKey(ctx context.Context, key string) (*repository.Project, error) {
	for _, p := range r.projects {
		if p.Key == key {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project *repository.Project) error {
	r.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id string) error {
	delete(r.projects, id)
	return nil
}

func (r *fakeProjectRepo) AddMember(ctx context.Context, member *repository.ProjectMember) error {
	member.ID = fmt.Sprintf("pm-%d", len(r.members)+1)
	member.JoinedAt = time.Now()
	r.members = append(r.members, member)
	return nil
}

func (r *fakeProjectRepo) FindMembers(ctx context.Context, projectID string) ([]*repository.ProjectMember, error) {
	var out []*repository.ProjectMember
	for _, m := range r.members {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) FindMember(ctx context.Context, projectID, userID string) (*repository.ProjectMember, error) {
	for _, m := range r.members {
		if m.ProjectID == projectID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeProjectRepo) FindMemberUserIDs(ctx context.Context, projectID string) ([]string, error) {
	var ids []string
	for _, m := range r.members {
		if m.ProjectID == projectID {
			ids = append(ids, m.UserID)
		}
	}
	return ids, nil
}

func (r *fakeProjectRepo) RemoveMember(ctx context.Context, projectID, userID string) error {
	for i, m := range r.members {
		if m.ProjectID == projectID && m.UserID == userID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeProjectRepo) GetNextTaskNumber(ctx context.Context, projectID string) (int, error) {
	r.nextNum[projectID]++
	return r.nextNum[projectID], nil
}

func (r *fakeProjectRepo) SearchByName(ctx context.Context, userID, query string, limit int) ([]*repository.Project, error) {
	return nil, nil
}

// ============================================
// Task repository fake
// ============================================

type fakeTaskRepo struct {
	tasks  map[string]*repository.Task
	labels map[string][]string
	nextID int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{
		tasks:  make(map[string]*repository.Task),
		labels: make(map[string][]string),
	}
}

func (r *fakeTaskRepo) addTask(task *repository.Task) *repository.Task {
	if task.ID == "" {
		r.nextID++
		task.ID = fmt.Sprintf("task-%d", r.nextID)
	}
	r.tasks[task.ID] = task
	return task
}

func (r *fakeTaskRepo) Create(ctx context.Context, task *repository.Task) error {
	r.nextID++
	task.ID = fmt.Sprintf("task-%d", r.nextID)
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	r.tasks[task.ID] = task
	return nil
}

func (r *fakeTaskRepo) FindByID(ctx context.Context, id string) (*repository.Task, error) {
	return r.tasks[id], nil
}

func (r *fakeTaskRepo) FindByKey(ctx context.Context, key string) (*repository.Task, error) {
	for _, t := range r.tasks {
		if t.Key == key {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTaskRepo) FindByProjectID(ctx context.Context, projectID string, filters *repository.TaskFilters) ([]*repository.Task, error) {
	var out []*repository.Task
	for _, t := range r.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) FindByAssigneeID(ctx context.Context, assigneeID string) ([]*repository.Task, error) {
	var out []*repository.Task
	for _, t := range r.tasks {
		if t.AssigneeID != nil && *t.AssigneeID == assigneeID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) FindOverdue(ctx context.Context) ([]*repository.Task, error) {
	return nil, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, task *repository.Task) error {
	r.tasks[task.ID] = task
	return nil
}

func (r *fakeTaskRepo) UpdateStatus(ctx context.Context, id, status string, orderIndex int, completedAt *time.Time) error {
	if t := r.tasks[id]; t != nil {
		t.Status = status
		t.OrderIndex = orderIndex
		t.CompletedAt = completedAt
	}
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id string) error {
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) MaxOrderIndex(ctx context.Context, projectID, status string) (int, error) {
	max := 0
	for _, t := range r.tasks {
		if t.ProjectID == projectID && t.Status == status && t.OrderIndex > max {
			max = t.OrderIndex
		}
	}
	return max, nil
}

func (r *fakeTaskRepo) Search(ctx context.Context, userID, query string, limit int) ([]*repository.Task, error) {
	return nil, nil
}

func (r *fakeTaskRepo) AddLabel(ctx context.Context, taskID, labelID string) error {
	r.labels[taskID] = append(r.labels[taskID], labelID)
	return nil
}

func (r *fakeTaskRepo) RemoveLabel(ctx context.Context, taskID, labelID string) error {
	ids := r.labels[taskID]
	for i, id := range ids {
		if id == labelID {
			r.labels[taskID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeTaskRepo) FindLabels(ctx context.Context, taskID string) ([]*repository.Label, error) {
	return nil, nil
}

// ============================================
// Comment repository fake
// ============================================

type fakeCommentRepo struct {
	comments map[string]*repository.Comment
	nextID   int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*repository.Comment)}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *repository.Comment) error {
	r.nextID++
	comment.ID = fmt.Sprintf("comment-%d", r.nextID)
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) FindByID(ctx context.Context, id string) (*repository.Comment, error) {
	return r.comments[id], nil
}

func (r *fakeCommentRepo) FindByTaskID(ctx context.Context, taskID string) ([]*repository.Comment, error) {
	var out []*repository.Comment
	for _, c := range r.comments {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) Update(ctx context.Context, comment *repository.Comment) error {
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id string) error {
	delete(r.comments, id)
	return nil
}

// ============================================
// Label repository fake
// ============================================

type fakeLabelRepo struct {
	labels map[string]*repository.Label
	nextID int
}

func newFakeLabelRepo() *fakeLabelRepo {
	return &fakeLabelRepo{labels: make(map[string]*repository.Label)}
}

func (r *fakeLabelRepo) addLabel(id, projectID, name string) *repository.Label {
	l := &repository.Label{ID: id, Name: name, Color: "#6366f1", ProjectID: projectID, CreatedAt: time.Now()}
	r.labels[id] = l
	return l
}

func (r *fakeLabelRepo) Create(ctx context.Context, label *repository.Label) error {
	r.nextID++
	label.ID = fmt.Sprintf("label-%d", r.nextID)
	label.CreatedAt = time.Now()
	r.labels[label.ID] = label
	return nil
}

func (r *fakeLabelRepo) FindByID(ctx context.Context, id string) (*repository.Label, error) {
	return r.labels[id], nil
}

func (r *fakeLabelRepo) FindByProjectID(ctx context.Context, projectID string) ([]*repository.Label, error) {
	var out []*repository.Label
	for _, l := range r.labels {
		if l.ProjectID == projectID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLabelRepo) Update(ctx context.Context, label *repository.Label) error {
	r.labels[label.ID] = label
	return nil
}

func (r *fakeLabelRepo) Delete(ctx context.Context, id string) error {
	delete(r.labels, id)
	return nil
}

// ============================================
// User repository fake
// ============================================

type fakeUserRepo struct {
	users  map[string]*repository.User
	tokens map[string]*repository.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]*repository.User),
		tokens: make(map[string]*repository.RefreshToken),
	}
}

func (r *fakeUserRepo) addUser(id, email, name string) *repository.User {
	u := &repository.User{ID: id, Email: email, Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.users[id] = u
	return u
}

func (r *fakeUserRepo) Create(ctx context.Context, user *repository.User) error {
	user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*repository.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Search(ctx context.Context, query string, limit int) ([]*repository.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *repository.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) SaveRefreshToken(ctx context.Context, token *repository.RefreshToken) error {
	r.tokens[token.Token] = token
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(ctx context.Context, token string) (*repository.RefreshToken, error) {
	return r.tokens[token], nil
}

func (r *fakeUserRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

func (r *fakeUserRepo) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	return 0, nil
}
