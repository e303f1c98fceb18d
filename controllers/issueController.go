package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartcampus/middlewares"
	"smartcampus/models"
	"smartcampus/repository"
)

type IssueController struct {
	Issues repository.IssueRepository
	Now    func() time.Time
}

func NewIssueController(issues repository.IssueRepository) *IssueController {
	return &IssueController{Issues: issues, Now: time.Now}
}

// ListIssues returns every issue, oldest first.
func (ic *IssueController) ListIssues(c *gin.Context) {
	issues, err := ic.Issues.List(c.Request.Context())
	if err != nil {
		zap.S().Errorw("list issues", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	c.JSON(http.StatusOK, issues)
}

// CreateIssue stores a new issue. The backend owns id, status and createdAt.
func (ic *IssueController) CreateIssue(c *gin.Context) {
	var input models.IssueDraft
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input = input.WithDefaults()
	if input.Lat == 0 && input.Lng == 0 {
		input.Lat, input.Lng = models.CampusCenter.Lat, models.CampusCenter.Lng
	}
	if err := models.Validate("create issue", input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue := models.Issue{
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		LocationName: input.LocationName,
		Category:     input.Category,
		Priority:     input.Priority,
		Status:       models.Submitted,
		Lat:          input.Lat,
		Lng:          input.Lng,
		CreatedBy:    middlewares.UserID(c),
		CreatedAt:    ic.Now().UTC(),
	}
	if err := ic.Issues.Insert(c.Request.Context(), &issue); err != nil {
		zap.S().Errorw("create issue", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	zap.S().Infow("issue created", "id", issue.ID, "priority", issue.Priority)
	c.JSON(http.StatusCreated, issue)
}

// DeleteIssue removes an issue. Issues with a recorded creator can only be
// deleted by that user.
func (ic *IssueController) DeleteIssue(c *gin.Context) {
	id := models.IssueID(c.Param("id"))
	userID := middlewares.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx := c.Request.Context()
	issue, err := ic.Issues.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			zap.S().Errorw("get issue", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	if issue.CreatedBy != "" && issue.CreatedBy != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this issue"})
		return
	}

	if err := ic.Issues.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
			return
		}
		zap.S().Errorw("delete issue", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete issue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue deleted successfully"})
}
