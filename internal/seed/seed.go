package seed

import (
	"context"
	"log"
	"time"

	"github.com/taskora/taskora-backend/internal/repository"
	"github.com/taskora/taskora-backend/internal/types"
	"golang.org/x/crypto/bcrypt"
)

// SeedData creates demo data for local development. It is idempotent only in
// the sense that it bails out when the demo owner already exists.
func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	if existing, _ := repos.UserRepo.FindByEmail(ctx, "alice@taskora.dev"); existing != nil {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] Creating demo data...")

	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// Alice owns the org, Bob administers it, Carol and Dave are members.
	alice := &repository.User{Email: "alice@taskora.dev", Password: string(password), Name: "Alice Nguyen"}
	bob := &repository.User{Email: "bob@taskora.dev", Password: string(password), Name: "Bob Castillo"}
	carol := &repository.User{Email: "carol@taskora.dev", Password: string(password), Name: "Carol Mensah"}
	dave := &repository.User{Email: "dave@taskora.dev", Password: string(password), Name: "Dave Sorensen"}

	for _, u := range []*repository.User{alice, bob, carol, dave} {
		if err := repos.UserRepo.Create(ctx, u); err != nil {
			log.Printf("[Seed] Failed to create user %s: %v", u.Email, err)
			return
		}
	}

	org := &repository.Organization{Name: "Acme Studio"}
	if err := repos.OrgRepo.Create(ctx, org); err != nil {
		log.Printf("[Seed] Failed to create organization: %v", err)
		return
	}

	repos.OrgRepo.AddMember(ctx, &repository.OrganizationMember{
		OrganizationID: org.ID, UserID: alice.ID, Role: types.OrgRoleOwner,
	})
	repos.OrgRepo.AddMember(ctx, &repository.OrganizationMember{
		OrganizationID: org.ID, UserID: bob.ID, Role: types.OrgRoleAdmin,
	})
	repos.OrgRepo.AddMember(ctx, &repository.OrganizationMember{
		OrganizationID: org.ID, UserID: carol.ID, Role: types.OrgRoleMember,
	})
	repos.OrgRepo.AddMember(ctx, &repository.OrganizationMember{
		OrganizationID: org.ID, UserID: dave.ID, Role: types.OrgRoleMember,
	})

	// Carol leads the website project; Dave is a plain project member.
	website := &repository.Project{
		OrganizationID: org.ID,
		Name:           "Website Redesign",
		Key:            "WEB",
		LeadID:         &carol.ID,
	}
	if err := repos.ProjectRepo.Create(ctx, website); err != nil {
		log.Printf("[Seed] Failed to create project: %v", err)
		return
	}
	repos.ProjectRepo.AddMember(ctx, &repository.ProjectMember{ProjectID: website.ID, UserID: carol.ID})
	repos.ProjectRepo.AddMember(ctx, &repository.ProjectMember{ProjectID: website.ID, UserID: dave.ID})

	bugLabel := &repository.Label{Name: "bug", Color: "#e74c3c", ProjectID: website.ID}
	designLabel := &repository.Label{Name: "design", Color: "#9b59b6", ProjectID: website.ID}
	repos.LabelRepo.Create(ctx, bugLabel)
	repos.LabelRepo.Create(ctx, designLabel)

	due := time.Now().Add(7 * 24 * time.Hour)
	seedTasks := []*repository.Task{
		{
			Key: "WEB-1", Title: "Audit current landing page", Status: types.StatusDone,
			Priority: types.PriorityMedium, ProjectID: website.ID,
			AssigneeID: &carol.ID, ReporterID: carol.ID, OrderIndex: 1,
		},
		{
			Key: "WEB-2", Title: "Design new hero section", Status: types.StatusInProgress,
			Priority: types.PriorityHigh, ProjectID: website.ID,
			AssigneeID: &dave.ID, ReporterID: carol.ID, DueDate: &due, OrderIndex: 1,
		},
		{
			Key: "WEB-3", Title: "Fix mobile nav overflow", Status: types.StatusBacklog,
			Priority: types.PriorityUrgent, ProjectID: website.ID,
			ReporterID: dave.ID, OrderIndex: 1,
		},
	}
	for _, t := range seedTasks {
		if err := repos.TaskRepo.Create(ctx, t); err != nil {
			log.Printf("[Seed] Failed to create task %s: %v", t.Key, err)
			return
		}
	}

	repos.TaskRepo.AddLabel(ctx, seedTasks[2].ID, bugLabel.ID)
	repos.TaskRepo.AddLabel(ctx, seedTasks[1].ID, designLabel.ID)

	repos.CommentRepo.Create(ctx, &repository.Comment{
		TaskID:  seedTasks[1].ID,
		UserID:  carol.ID,
		Content: "Let's keep the palette from the brand refresh.",
	})

	log.Println("[Seed] Demo data created: 4 users, 1 org, 1 project, 3 tasks")
	log.Println("[Seed] Login with alice@taskora.dev / password123")
}
