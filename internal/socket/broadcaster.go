package socket

import (
	"fmt"
)

// Broadcaster provides high-level methods for broadcasting events
type Broadcaster struct {
	hub *Hub
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

func projectRoom(projectID string) string {
	return fmt.Sprintf("project:%s", projectID)
}

func orgRoom(orgID string) string {
	return fmt.Sprintf("org:%s", orgID)
}

// ============================================
// Organization Member Broadcasting
// ============================================

// BroadcastMemberAdded broadcasts member addition to organization members
func (b *Broadcaster) BroadcastMemberAdded(orgID, userID, role, actorID string) {
	b.hub.SendToRoom(orgRoom(orgID), MessageMemberAdded, map[string]interface{}{
		"orgId":  orgID,
		"userId": userID,
		"role":   role,
	}, actorID)
	// The new member may not have joined the org room yet
	b.hub.SendToUser(userID, MessageMemberAdded, map[string]interface{}{
		"orgId": orgID,
		"role":  role,
	})
}

// BroadcastMemberRoleUpdated broadcasts a member role change to organization members
func (b *Broadcaster) BroadcastMemberRoleUpdated(orgID, userID, role, actorID string) {
	b.hub.SendToRoom(orgRoom(orgID), MessageMemberRoleUpdated, map[string]interface{}{
		"orgId":   orgID,
		"userId":  userID,
		"newRole": role,
	}, actorID)
}

// BroadcastMemberRemoved broadcasts member removal to organization members
func (b *Broadcaster) BroadcastMemberRemoved(orgID, userID, actorID string) {
	b.hub.SendToRoom(orgRoom(orgID), MessageMemberRemoved, map[string]interface{}{
		"orgId":  orgID,
		"userId": userID,
	}, actorID)
	b.hub.SendToUser(userID, MessageMemberRemoved, map[string]interface{}{
		"orgId": orgID,
	})
}

// ============================================
// Project Broadcasting
// ============================================

// BroadcastProjectCreated broadcasts project creation to organization members
func (b *Broadcaster) BroadcastProjectCreated(orgID, projectID, name, creatorID string) {
	b.hub.SendToRoom(orgRoom(orgID), MessageProjectCreated, map[string]interface{}{
		"orgId":     orgID,
		"projectId": projectID,
		"name":      name,
	}, creatorID)
}

// BroadcastProjectUpdated broadcasts project updates to organization members
func (b *Broadcaster) BroadcastProjectUpdated(orgID, projectID, excludeUserID string) {
	b.hub.SendToRoom(orgRoom(orgID), MessageProjectUpdated, map[string]interface{}{
		"orgId":     orgID,
		"projectId": projectID,
	}, excludeUserID)
}

// BroadcastProjectDeleted broadcasts project deletion to organization members
func (b *Broadcaster) BroadcastProjectDeleted(orgID, projectID, excludeUserID string) {
	b.hub.SendToRoom(orgRoom(orgID), MessageProjectDeleted, map[string]interface{}{
		"orgId":     orgID,
		"projectId": projectID,
	}, excludeUserID)
}

// BroadcastProjectMemberAdded broadcasts project member addition to project members
func (b *Broadcaster) BroadcastProjectMemberAdded(projectID, userID, actorID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageProjectMemberAdded, map[string]interface{}{
		"projectId": projectID,
		"userId":    userID,
	}, actorID)
	b.hub.SendToUser(userID, MessageProjectMemberAdded, map[string]interface{}{
		"projectId": projectID,
	})
}

// BroadcastProjectMemberRemoved broadcasts project member removal to project members
func (b *Broadcaster) BroadcastProjectMemberRemoved(projectID, userID, actorID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageProjectMemberRemoved, map[string]interface{}{
		"projectId": projectID,
		"userId":    userID,
	}, actorID)
}

// ============================================
// Task Broadcasting
// ============================================

// BroadcastTaskCreated broadcasts task creation to project members
func (b *Broadcaster) BroadcastTaskCreated(projectID, taskID, taskKey, reporterID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageTaskCreated, map[string]interface{}{
		"projectId": projectID,
		"taskId":    taskID,
		"taskKey":   taskKey,
	}, reporterID)
}

// BroadcastTaskUpdated broadcasts task updates to project members
func (b *Broadcaster) BroadcastTaskUpdated(projectID, taskID, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageTaskUpdated, map[string]interface{}{
		"projectId":     projectID,
		"taskId":        taskID,
		"changedByUser": excludeUserID,
	}, excludeUserID)
}

// BroadcastTaskDeleted broadcasts task deletion to project members
func (b *Broadcaster) BroadcastTaskDeleted(projectID, taskID, taskKey, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageTaskDeleted, map[string]interface{}{
		"projectId": projectID,
		"taskId":    taskID,
		"taskKey":   taskKey,
	}, excludeUserID)
}

// BroadcastTaskMoved broadcasts a task status change to project members
func (b *Broadcaster) BroadcastTaskMoved(projectID, taskID, oldStatus, newStatus, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageTaskMoved, map[string]interface{}{
		"projectId":     projectID,
		"taskId":        taskID,
		"oldStatus":     oldStatus,
		"newStatus":     newStatus,
		"changedByUser": excludeUserID,
	}, excludeUserID)
}

// BroadcastTaskAssigned notifies the assigned user
func (b *Broadcaster) BroadcastTaskAssigned(assigneeID, taskID, taskKey, assignedBy string) {
	b.hub.SendToUser(assigneeID, MessageTaskAssigned, map[string]interface{}{
		"taskId":     taskID,
		"taskKey":    taskKey,
		"assignedBy": assignedBy,
	})
}

// BroadcastTaskOverdue notifies a user that an assigned task is past due
func (b *Broadcaster) BroadcastTaskOverdue(assigneeID, taskID, taskKey string) {
	b.hub.SendToUser(assigneeID, MessageTaskOverdue, map[string]interface{}{
		"taskId":  taskID,
		"taskKey": taskKey,
	})
}

// ============================================
// Comment Broadcasting
// ============================================

// BroadcastCommentAdded broadcasts a new comment to project members
func (b *Broadcaster) BroadcastCommentAdded(projectID, taskID, commentID, excludeUserID string) {
	b.hub.SendToRoom(projectRoom(projectID), MessageCommentAdded, map[string]interface{}{
		"projectId": projectID,
		"taskId":    taskID,
		"commentId": commentID,
	}, excludeUserID)
}
