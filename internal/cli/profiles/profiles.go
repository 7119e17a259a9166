package profiles

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/wth/internal/cli"
	"github.com/julianstephens/wth/internal/placement"
)

type ProfileTierCmd struct{}

func (cmd *ProfileTierCmd) Run(c *cli.Context) error {
	res, err := c.Profile.Resolve(context.Background())
	if err != nil {
		return fmt.Errorf("failed to resolve tier: %w", err)
	}

	fmt.Printf("Tier:   %s (rank %d)\n", res.Tier, res.Tier.Rank())
	fmt.Printf("Source: %s\n", res.Source)
	if res.Tier.Paid() {
		fmt.Println("Paid member: coupons unlocked, no hour sponsor line.")
	} else if placement.ShowHourSponsor(res.Tier) {
		fmt.Println("Free member: hour sponsor line shown on the check-in screen.")
	}
	return nil
}

type ProfileSetTokenCmd struct {
	Token string `arg:"" help:"Profile token (JWT with a tier claim)."`
}

func (cmd *ProfileSetTokenCmd) Run(c *cli.Context) error {
	tier, err := c.Profile.SaveToken(context.Background(), strings.TrimSpace(cmd.Token))
	if err != nil {
		return fmt.Errorf("failed to store profile token: %w", err)
	}
	fmt.Printf("✓ Profile token stored in OS keyring (tier: %s)\n", tier)
	return nil
}

type ProfileClearTokenCmd struct{}

func (cmd *ProfileClearTokenCmd) Run(c *cli.Context) error {
	if err := c.Profile.ClearToken(); err != nil {
		return fmt.Errorf("failed to delete profile token: %w", err)
	}
	fmt.Println("✓ Profile token removed from OS keyring")
	return nil
}
