package httpapi

import (
	"context"
	"net/http"
	"sort"

	"ymate/internal/adapters/httpapi/middleware"
	"ymate/internal/core/errs"
	"ymate/internal/core/post"
	postapp "ymate/internal/core/post/service"
	appPort "ymate/internal/ports/application"
	postPort "ymate/internal/ports/post"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DomainController serves the post and application routes of every
// category under /:domain.
type DomainController struct {
	domains map[post.Domain]Domain
	logger  *zap.Logger
}

func NewDomainController(domains map[post.Domain]Domain, logger *zap.Logger) *DomainController {
	return &DomainController{domains: domains, logger: logger}
}

func (ctl *DomainController) domain(c *gin.Context) (Domain, bool) {
	d, ok := ctl.domains[post.Domain(c.Param("domain"))]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": string(errs.KindNotFound), "message": "unknown category"})
	}
	return d, ok
}

// Main returns the open posts of every category.
func (ctl *DomainController) Main(c *gin.Context) {
	names := make([]string, 0, len(ctl.domains))
	for name := range ctl.domains {
		names = append(names, string(name))
	}
	sort.Strings(names)

	out := make(gin.H, len(names))
	for _, name := range names {
		list, err := ctl.domains[post.Domain(name)].Posts.ListPosts(c.Request.Context(), post.StateActive)
		if err != nil {
			writeError(c, ctl.logger, err)
			return
		}
		out[name] = list.Active
	}
	c.JSON(http.StatusOK, out)
}

func (ctl *DomainController) ListPosts(c *gin.Context) {
	d, ok := ctl.domain(c)
	if !ok {
		return
	}
	states, err := postapp.ParseStates(c.Query("state"))
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	list, err := d.Posts.ListPosts(c.Request.Context(), states...)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ctl *DomainController) GetPost(c *gin.Context) {
	d, ok := ctl.domain(c)
	if !ok {
		return
	}
	p, err := d.Posts.GetPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ctl *DomainController) CreatePost(c *gin.Context) {
	d, ok := ctl.domain(c)
	if !ok {
		return
	}
	var in postPort.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	// گرفتن studentID از context
	studentID, _ := middleware.StudentID(c)
	p, err := d.Posts.CreatePost(c.Request.Context(), studentID, in)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (ctl *DomainController) UpdatePost(c *gin.Context) {
	d, ok := ctl.domain(c)
	if !ok {
		return
	}
	var in postPort.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	studentID, _ := middleware.StudentID(c)
	p, err := d.Posts.UpdatePost(c.Request.Context(), studentID, c.Param("postId"), in)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ctl *DomainController) DeletePost(c *gin.Context) {
	d, ok := ctl.domain(c)
	if !ok {
		return
	}
	studentID, _ := middleware.StudentID(c)
	if err := d.Posts.DeletePost(c.Request.Context(), studentID, c.Param("postId")); err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": string(post.StateDeleted)})
}

func (ctl *DomainController) FinishPost(c *gin.Context) {
	d, ok := ctl.domain(c)
	if !ok {
		return
	}
	studentID, _ := middleware.StudentID(c)
	if err := d.Posts.FinishPost(c.Request.Context(), studentID, c.Param("postId")); err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": string(post.StateFinished)})
}

func (ctl *DomainController) ListMyPosts(c *gin.Context) {
	d, ok := ctl.domain(c)
	if !ok {
		return
	}
	studentID, _ := middleware.StudentID(c)
	posts, err := d.Posts.ListMyPosts(c.Request.Context(), studentID)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (ctl *DomainController) Apply(c *gin.Context) {
	d, ok := ctl.domain(c)
	if !ok {
		return
	}
	var in appPort.ApplicationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	studentID, _ := middleware.StudentID(c)
	a, err := d.Applications.Apply(c.Request.Context(), studentID, c.Param("postId"), in)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

type decision func(apps ApplicationUseCase, ctx context.Context, studentID int64, appID string) (*appPort.ApplicationDTO, error)

func (ctl *DomainController) Cancel(c *gin.Context) {
	ctl.decide(c, ApplicationUseCase.Cancel)
}

func (ctl *DomainController) Accept(c *gin.Context) {
	ctl.decide(c, ApplicationUseCase.Accept)
}

func (ctl *DomainController) Reject(c *gin.Context) {
	ctl.decide(c, ApplicationUseCase.Reject)
}

func (ctl *DomainController) decide(c *gin.Context, op decision) {
	d, ok := ctl.domain(c)
	if !ok {
		return
	}
	studentID, _ := middleware.StudentID(c)
	a, err := op(d.Applications, c.Request.Context(), studentID, c.Param("appId"))
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (ctl *DomainController) ListMyApplications(c *gin.Context) {
	d, ok := ctl.domain(c)
	if !ok {
		return
	}
	studentID, _ := middleware.StudentID(c)
	apps, err := d.Applications.ListMyApplications(c.Request.Context(), studentID)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}
