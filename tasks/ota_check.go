package tasks

import (
	"context"
	"time"

	"go.viam.com/micrordk/appclient"
	"go.viam.com/micrordk/config"
	"go.viam.com/micrordk/ota"
)

// OtaCheck looks for an ota_service entry in the config returned by
// CurrentCfg and, if one is present and no image is already pending
// verification, triggers a download.
type OtaCheck struct {
	Service    *ota.Service
	CurrentCfg func() config.RobotConfig
	Period     time.Duration
}

func (o *OtaCheck) Name() string                { return "OtaCheck" }
func (o *OtaCheck) DefaultPeriod() time.Duration { return o.Period }

func (o *OtaCheck) Invoke(ctx context.Context, client *appclient.AppClient) (*time.Duration, error) {
	if o.Service.SlotState() == ota.SlotPendingVerify {
		return nil, nil
	}

	cfg := o.CurrentCfg()
	for _, svc := range cfg.Services {
		if svc.Model != "ota_service" {
			continue
		}
		url := svc.Attributes.StringOr("url", "")
		if url == "" {
			continue
		}
		return nil, o.Service.Download(ctx, url)
	}
	return nil, nil
}
