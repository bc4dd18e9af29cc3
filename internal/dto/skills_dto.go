package dto

import "github.com/skillflow/skillflow-server/internal/models"

// SyncSkillsRequest carries a user's whole collection; the server overwrites
// its copy wholesale, matching the client's save model.
type SyncSkillsRequest struct {
	Skills []models.Skill `json:"skills"`
}
