package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"imex-website/models"
	"imex-website/repository"
	"imex-website/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PoliciesController shows the legal pages and lets admins edit them.
type PoliciesController struct {
	policies repository.PolicyRepository
	log      logrus.FieldLogger
}

func NewPoliciesController(policies repository.PolicyRepository, log logrus.FieldLogger) *PoliciesController {
	return &PoliciesController{policies: policies, log: log}
}

func (h *PoliciesController) ReadPolicy(c *gin.Context) {
	policy, ok := h.load(c)
	if !ok {
		redirect(c, utils.ClientInfoURL("Pagina căutată nu există."))
		return
	}
	render(c, "policies/read.html", newView(c, policy.Name, policy))
}

func (h *PoliciesController) EditPolicy(c *gin.Context) {
	policy, ok := h.load(c)
	if !ok {
		redirect(c, utils.ErrorInfoURL("Politica nu a fost găsită."))
		return
	}
	render(c, "policies/edit.html", newView(c, "Editează "+policy.Name, policy))
}

// UpdatePolicy saves the edited policy, or shows the stored one again with
// the validation errors.
func (h *PoliciesController) UpdatePolicy(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		redirect(c, utils.ErrorInfoURL("Politica nu a fost găsită."))
		return
	}

	var form models.Policy
	bindErr := c.ShouldBind(&form)
	form.PolicyID = id
	if bindErr != nil {
		stored, err := h.policies.Get(c.Request.Context(), id)
		if err != nil {
			h.logLookup(err, id)
			redirect(c, utils.ErrorInfoURL("Politica nu a fost găsită."))
			return
		}
		render(c, "policies/edit.html", newView(c, "Editează "+stored.Name, stored).withErrors(utils.BindingErrors(bindErr)))
		return
	}

	if err := h.policies.Update(c.Request.Context(), &form); err != nil {
		h.log.WithError(err).WithField("policy_id", id).Error("Policies: update")
		redirect(c, utils.AdminInfoURL("Politica nu a putut fi actualizată."))
		return
	}
	redirect(c, fmt.Sprintf("/administration/policies/%d/edit", id))
}

// load reads the policy named by the :id parameter; ids <= 0 are never looked up.
func (h *PoliciesController) load(c *gin.Context) (*models.Policy, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return nil, false
	}
	policy, err := h.policies.Get(c.Request.Context(), id)
	if err != nil {
		h.logLookup(err, id)
		return nil, false
	}
	return policy, true
}

func (h *PoliciesController) logLookup(err error, id int) {
	if errors.Is(err, repository.ErrNotFound) {
		return
	}
	h.log.WithError(err).WithField("policy_id", id).Error("Policies: load policy")
}
