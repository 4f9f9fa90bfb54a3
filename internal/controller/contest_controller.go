package controller

import (
	"strconv"

	"minoj/internal/model"
	"minoj/internal/service"
	"minoj/pkg/errors"
	"minoj/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// ContestController handles contest and ranklist endpoints.
type ContestController struct {
	contestService  *service.ContestService
	ranklistService *service.RanklistService
}

// NewContestController creates a new ContestController.
func NewContestController(contestService *service.ContestService, ranklistService *service.RanklistService) *ContestController {
	return &ContestController{
		contestService:  contestService,
		ranklistService: ranklistService,
	}
}

// Post creates a contest when the body has no id, updates one otherwise.
func (h *ContestController) Post(c *gin.Context) {
	var req model.Contest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}

	var (
		contest *model.Contest
		err     error
	)
	if req.ID == nil {
		contest, err = h.contestService.Create(c.Request.Context(), &req)
	} else {
		contest, err = h.contestService.Update(c.Request.Context(), &req)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, contest)
}

// List returns all contests except contest 0 in ascending id order.
func (h *ContestController) List(c *gin.Context) {
	response.Success(c, h.contestService.List(c.Request.Context()))
}

// Get returns one contest.
func (h *ContestController) Get(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.Error(c, errors.Newf(errors.NotFound, "Contest %s not found.", raw))
		return
	}
	contest, err := h.contestService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, contest)
}

// Ranklist returns the ranked rows for one contest. scoring_rule
// defaults to latest; tie_breaker defaults to none.
func (h *ContestController) Ranklist(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.Error(c, errors.Newf(errors.NotFound, "Contest %s not found.", raw))
		return
	}

	rule := model.ScoringLatest
	if rawRule, ok := c.GetQuery("scoring_rule"); ok {
		rule, err = model.ParseScoringRule(rawRule)
		if err != nil {
			response.Error(c, err)
			return
		}
	}
	var breaker model.TieBreaker
	if rawBreaker, ok := c.GetQuery("tie_breaker"); ok {
		breaker, err = model.ParseTieBreaker(rawBreaker)
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	ranks, err := h.ranklistService.Ranklist(c.Request.Context(), id, rule, breaker)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ranks)
}
