package repo

import (
	"time"
)

type Config struct {
	RepoRoot   string     `mapstructure:"-" toml:"-"`
	DialUrl    string     `mapstructure:"dial_url" toml:"dial_url"`
	Governance Governance `mapstructure:"governance" toml:"governance"`
	Log        Log        `mapstructure:"log" toml:"log"`
	Subscribe  Subscribe  `mapstructure:"subscribe" toml:"subscribe"`
}

// Governance holds the platform economics knobs.
type Governance struct {
	// FeePercentage is the platform fee in basis points (250 = 2.5%).
	FeePercentage uint64 `mapstructure:"fee_percentage" toml:"fee_percentage"`
	// MinFundingAmount is the smallest accepted contribution.
	MinFundingAmount uint64 `mapstructure:"min_funding_amount" toml:"min_funding_amount"`
	// MinStakeAmount is the smallest total stake a reviewer must hold.
	MinStakeAmount uint64 `mapstructure:"min_stake_amount" toml:"min_stake_amount"`
	// Admin may update proposals and open funding on behalf of
	// researchers. Empty means no admin override.
	Admin string `mapstructure:"admin" toml:"admin"`
}

type Log struct {
	Level        string        `mapstructure:"level" toml:"level"`
	Filename     string        `mapstructure:"filename" toml:"filename"`
	ReportCaller bool          `mapstructure:"report_caller" toml:"report_caller"`
	MaxAge       time.Duration `mapstructure:"max_age" toml:"max_age"`
	RotationTime time.Duration `mapstructure:"rotation_time" toml:"rotation_time"`
}

type Subscribe struct {
	// beginning of the queried range, 1 means genesis block
	FromBlock uint64 `mapstructure:"from_block" toml:"from_block"`
	// end of the range, 0 means latest block
	ToBlock   uint64     `mapstructure:"to_block" toml:"to_block"`
	Addresses []string   `mapstructure:"addresses" toml:"addresses"`
	Topics    [][]string `mapstructure:"topics" toml:"topics"`
}

func DefaultConfig(repoRoot string) *Config {
	return &Config{
		RepoRoot: repoRoot,
		DialUrl:  "ws://localhost:9991",
		Governance: Governance{
			FeePercentage:    250,
			MinFundingAmount: 100,
			MinStakeAmount:   1000,
			Admin:            "",
		},
		Log: Log{
			Level:        "info",
			Filename:     "suifund.log",
			ReportCaller: false,
			MaxAge:       30 * 24 * time.Hour,
			RotationTime: 24 * time.Hour,
		},
		Subscribe: Subscribe{
			FromBlock: 1,
			ToBlock:   0,
			Addresses: []string{FundingContractAddr},
			// first position is the platform event signature hash
			Topics: [][]string{{"0x2f0f8f8a8c1f5e40a1d4b1b94a1f4a7c3e16b5a3a3dd3c5f9e6c2b7a55e90c11"}},
		},
	}
}
