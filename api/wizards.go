/*
Copyright 2025 Telsim Labs Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/telsim/onboard/internal/apierror"
	"github.com/telsim/onboard/wizard"
)

type wizardStep struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Conditional bool   `json:"conditional"`
}

type wizardSummary struct {
	Name       string       `json:"name"`
	Navigation string       `json:"navigation"`
	Validation string       `json:"validation"`
	Steps      []wizardStep `json:"steps"`
}

func summarize(def *wizard.Definition) wizardSummary {
	steps := make([]wizardStep, 0, len(def.Steps))
	for _, s := range def.Steps {
		steps = append(steps, wizardStep{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Conditional: s.Skip != nil,
		})
	}
	return wizardSummary{
		Name:       def.Name,
		Navigation: string(def.Navigation),
		Validation: string(def.Validation),
		Steps:      steps,
	}
}

// GetWizards lists the available wizard definitions.
func (a Api) GetWizards(c *gin.Context) {
	defs := wizard.Definitions()
	out := make([]wizardSummary, 0, len(defs))
	for _, def := range defs {
		out = append(out, summarize(def))
	}
	c.JSON(http.StatusOK, gin.H{"wizards": out})
}

// GetWizard retrieves one wizard definition by name.
func (a Api) GetWizard(c *gin.Context) {
	name, passed := c.Params.Get("name")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required. pass name in the route /:name"})
		return
	}

	def := wizard.ByName(name)
	if def == nil {
		err := apierror.NewAPIError(apierror.ErrNotFound, "unknown wizard", name)
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summarize(def))
}
