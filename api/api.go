package api

import (
	"github.com/gin-gonic/gin"

	"github.com/telsim/onboard"
	"github.com/telsim/onboard/api/middleware"
	"github.com/telsim/onboard/config"
)

type Api struct {
	onboard *onboard.Onboard
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/applications", a.CreateApplication)
	router.GET("/applications/:id", a.GetApplication)
	router.GET("/applications", a.GetAllApplications)
	router.GET("/users/:user_id/applications", a.GetApplicationsByUser)
	router.POST("/applications/:id/approve", a.ApproveApplication)
	router.POST("/applications/:id/reject", a.RejectApplication)
	router.POST("/applications/:id/review", a.MarkUnderReview)
	router.POST("/applications/:id/checks", a.RunApplicationChecks)
	router.POST("/applications/:id/caf", a.GenerateCAF)

	router.POST("/otp/send", a.SendOTP)
	router.POST("/otp/verify", a.VerifyOTP)

	router.POST("/ekyc/initiate", a.InitiateEKYC)
	router.POST("/ekyc/verify", a.VerifyEKYC)

	router.POST("/digilocker/authorize", a.AuthorizeDocuments)
	router.GET("/digilocker/documents/:id/authenticity", a.CheckAuthenticity)

	router.GET("/plans", a.GetPlans)
	router.GET("/plans/:id", a.GetPlan)
	router.POST("/eligibility", a.CheckEligibility)

	router.GET("/wizards", a.GetWizards)
	router.GET("/wizards/:name", a.GetWizard)
	return a.router
}

func NewAPI(o *onboard.Onboard) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{onboard: o, router: r}
}
