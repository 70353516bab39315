package memory

import (
	"time"

	"onchainiq/internal/domain/models"
)

// Dataset is everything a Provider serves.
type Dataset struct {
	Tokens       []models.TokenInfo
	Liquidity    []models.TokenLiquidity
	RugAnalyses  []models.RugAnalysis
	Wallets      []models.WalletInfo
	Transactions []models.WalletTransaction // newest first
	Markets      []models.MarketOverview
}

// Well-known fixture addresses.
const (
	BonkAddress = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
	JupAddress  = "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN"
	CakeAddress = "0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82"
	ScamAddress = "RUGpull111111111111111111111111111111111111"
	UsdcAddress = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

	AlamedaWallet = "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1"
	JumpWallet    = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
	BinanceWallet = "0x28C6c06298d514Db089934071355E5743bf21d60"
	InsiderWallet = "7GCihgDB8fe6KNjn2MYtkzZcRjQy3t9GHdC8uHYmW2hr"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Fixtures builds the demo dataset. Relative timestamps (last activity,
// transaction times, analysis times) are derived from now.
func Fixtures(now time.Time) Dataset {
	now = now.UTC()

	return Dataset{
		Tokens: []models.TokenInfo{
			{
				Address:           BonkAddress,
				Chain:             models.ChainSolana,
				Symbol:            "BONK",
				Name:              "Bonk",
				Decimals:          5,
				TotalSupply:       "93526183799889893",
				CirculatingSupply: "68420000000000000",
				Price:             0.00003245,
				PriceChange24h:    12.5,
				Volume24h:         245000000,
				MarketCap:         2220000000,
				Holders:           892341,
				CreatedAt:         date(2022, time.December, 25),
			},
			{
				Address:           JupAddress,
				Chain:             models.ChainSolana,
				Symbol:            "JUP",
				Name:              "Jupiter",
				Decimals:          6,
				TotalSupply:       "10000000000000000",
				CirculatingSupply: "1350000000000000",
				Price:             1.24,
				PriceChange24h:    -3.2,
				Volume24h:         89000000,
				MarketCap:         1674000000,
				Holders:           234521,
				CreatedAt:         date(2024, time.January, 31),
			},
			{
				Address:           CakeAddress,
				Chain:             models.ChainBNB,
				Symbol:            "CAKE",
				Name:              "PancakeSwap",
				Decimals:          18,
				TotalSupply:       "389954804000000000000000000",
				CirculatingSupply: "283456789000000000000000000",
				Price:             2.45,
				PriceChange24h:    5.8,
				Volume24h:         67000000,
				MarketCap:         694368733,
				Holders:           1456789,
				CreatedAt:         date(2020, time.September, 25),
			},
			{
				Address:           ScamAddress,
				Chain:             models.ChainSolana,
				Symbol:            "SCAM",
				Name:              "Definitely Not A Rug",
				Decimals:          9,
				TotalSupply:       "1000000000000000000",
				CirculatingSupply: "100000000000000000",
				Price:             0.0000001,
				PriceChange24h:    -45.2,
				Volume24h:         50000,
				MarketCap:         10000,
				Holders:           234,
				CreatedAt:         date(2024, time.December, 1),
			},
			{
				Address:           UsdcAddress,
				Chain:             models.ChainSolana,
				Symbol:            "USDC",
				Name:              "USD Coin",
				Decimals:          6,
				TotalSupply:       "5000000000000000",
				CirculatingSupply: "4800000000000000",
				Price:             1.0,
				PriceChange24h:    0.01,
				Volume24h:         2500000000,
				MarketCap:         4800000000,
				Holders:           3456789,
				CreatedAt:         date(2020, time.January, 1),
			},
		},

		Liquidity: []models.TokenLiquidity{
			{
				TokenAddress:       BonkAddress,
				Chain:              models.ChainSolana,
				Dex:                "Raydium",
				PairAddress:        "8sLbNZoA1cfnvMJLPfp98ZLAnFSYCFApfJKMbiXNLwxj",
				BaseToken:          "BONK",
				QuoteToken:         "SOL",
				LiquidityUSD:       45000000,
				LiquidityChange24h: 2.3,
				LPTokenSupply:      "12345678901234",
				LPHolders: []models.LPHolder{
					{Address: AlamedaWallet, Balance: "1234567890123", Percentage: 10.0, Label: "Raydium Pool"},
					{Address: JumpWallet, Balance: "987654321012", Percentage: 8.0},
					{Address: InsiderWallet, Balance: "765432109876", Percentage: 6.2, IsContract: true, Label: "LP Lock Contract"},
				},
			},
			{
				TokenAddress:       ScamAddress,
				Chain:              models.ChainSolana,
				Dex:                "Raydium",
				PairAddress:        "ScamPair1111111111111111111111111111111111",
				BaseToken:          "SCAM",
				QuoteToken:         "SOL",
				LiquidityUSD:       5000,
				LiquidityChange24h: -78.5,
				LPTokenSupply:      "1000000000",
				LPHolders: []models.LPHolder{
					{Address: "DeployerScam1111111111111111111111111111111", Balance: "950000000", Percentage: 95.0, Label: "Deployer (Suspicious)"},
					{Address: "RandomBuyer111111111111111111111111111111", Balance: "50000000", Percentage: 5.0},
				},
			},
		},

		RugAnalyses: []models.RugAnalysis{
			{
				TokenAddress:     BonkAddress,
				Chain:            models.ChainSolana,
				OverallRiskScore: 15,
				RugProbability:   0.05,
				Confidence:       0.92,
				RiskFactors: []models.RiskFactor{
					{
						Category:    models.RiskLiquidity,
						Name:        "Liquidity Depth",
						Severity:    models.SeverityLow,
						Score:       10,
						Description: "Deep liquidity across multiple DEXs",
						Details:     map[string]any{"totalLiquidityUsd": 45000000, "dexCount": 3},
					},
					{
						Category:    models.RiskOwnership,
						Name:        "LP Distribution",
						Severity:    models.SeverityLow,
						Score:       15,
						Description: "LP tokens well distributed, no single holder dominates",
						Details:     map[string]any{"topHolderPercentage": 10, "holderCount": 892341},
					},
					{
						Category:    models.RiskTrading,
						Name:        "Volume Pattern",
						Severity:    models.SeverityLow,
						Score:       12,
						Description: "Organic trading pattern detected",
						Details:     map[string]any{"washTradingScore": 0.08},
					},
				},
				Warnings:        []string{},
				Recommendations: []string{"Continue monitoring for any sudden LP changes"},
				AnalyzedAt:      now,
			},
			{
				TokenAddress:     ScamAddress,
				Chain:            models.ChainSolana,
				OverallRiskScore: 95,
				RugProbability:   0.89,
				Confidence:       0.95,
				RiskFactors: []models.RiskFactor{
					{
						Category:    models.RiskLiquidity,
						Name:        "LP Concentration",
						Severity:    models.SeverityCritical,
						Score:       98,
						Description: "95% of LP held by deployer - extreme rug risk",
						Details:     map[string]any{"deployerLpPercentage": 95, "liquidityUsd": 5000},
					},
					{
						Category:    models.RiskOwnership,
						Name:        "Mint Authority",
						Severity:    models.SeverityCritical,
						Score:       100,
						Description: "Mint authority not renounced - can create unlimited tokens",
						Details:     map[string]any{"mintAuthorityActive": true},
					},
					{
						Category:    models.RiskContract,
						Name:        "Honeypot Risk",
						Severity:    models.SeverityHigh,
						Score:       85,
						Description: "Sell restrictions detected in contract",
						Details:     map[string]any{"maxSellPercentage": 1, "sellTaxPercentage": 50},
					},
					{
						Category:    models.RiskTrading,
						Name:        "Wash Trading",
						Severity:    models.SeverityHigh,
						Score:       92,
						Description: "87% of volume appears to be wash trading",
						Details:     map[string]any{"washTradingScore": 0.87, "uniqueTraders": 12},
					},
				},
				Warnings: []string{
					"CRITICAL: 95% LP held by single wallet",
					"CRITICAL: Mint authority still active",
					"HIGH: Possible honeypot - sell restrictions detected",
					"HIGH: Significant wash trading detected",
				},
				Recommendations: []string{
					"DO NOT INVEST - Extreme rug pull risk",
					"If holding, attempt to sell immediately",
					"Report token to community blacklists",
				},
				AnalyzedAt: now,
			},
		},

		Wallets: []models.WalletInfo{
			{
				Address:       AlamedaWallet,
				Chain:         models.ChainSolana,
				Label:         "Alameda Research Remnant",
				IsWhale:       true,
				TotalValueUSD: 125000000,
				TokenCount:    45,
				NFTCount:      12,
				FirstTxAt:     date(2021, time.March, 15),
				LastTxAt:      now,
				TxCount:       15678,
			},
			{
				Address:       JumpWallet,
				Chain:         models.ChainSolana,
				Label:         "Jump Trading",
				IsWhale:       true,
				TotalValueUSD: 89000000,
				TokenCount:    23,
				FirstTxAt:     date(2021, time.June, 20),
				LastTxAt:      now,
				TxCount:       8934,
			},
			{
				Address:       BinanceWallet,
				Chain:         models.ChainBNB,
				Label:         "Binance Hot Wallet",
				IsWhale:       true,
				TotalValueUSD: 2500000000,
				TokenCount:    156,
				FirstTxAt:     date(2020, time.September, 1),
				LastTxAt:      now,
				TxCount:       2345678,
			},
			{
				Address:       InsiderWallet,
				Chain:         models.ChainSolana,
				Label:         "Suspected Insider",
				IsWhale:       true,
				TotalValueUSD: 34000000,
				TokenCount:    8,
				FirstTxAt:     date(2024, time.January, 15),
				LastTxAt:      now,
				TxCount:       456,
			},
		},

		Transactions: []models.WalletTransaction{
			{
				Hash:      "5K8T...x9Yz",
				Chain:     models.ChainSolana,
				Type:      models.TxSwap,
				Timestamp: now.Add(-5 * time.Minute),
				From:      AlamedaWallet,
				To:        "Raydium AMM",
				TokenIn:   &models.TokenAmount{Address: "So11111111111111111111111111111111111111112", Symbol: "SOL", Amount: "50000000000", ValueUSD: 10950},
				TokenOut:  &models.TokenAmount{Address: BonkAddress, Symbol: "BONK", Amount: "337500000000000", ValueUSD: 10950},
				ValueUSD:  10950,
				Fee:       0.000005,
			},
			{
				Hash:      "8Jk2...m4Np",
				Chain:     models.ChainSolana,
				Type:      models.TxTransfer,
				Timestamp: now.Add(-15 * time.Minute),
				From:      JumpWallet,
				To:        InsiderWallet,
				TokenIn:   &models.TokenAmount{Address: UsdcAddress, Symbol: "USDC", Amount: "5000000000000", ValueUSD: 5000000},
				ValueUSD:  5000000,
				Fee:       0.000005,
			},
			{
				Hash:      "3Lm9...q7Rt",
				Chain:     models.ChainSolana,
				Type:      models.TxLPRemove,
				Timestamp: now.Add(-30 * time.Minute),
				From:      "DeployerScam1111111111111111111111111111111",
				To:        "ScamPair1111111111111111111111111111111111",
				TokenIn:   &models.TokenAmount{Address: "ScamLP111111111111111111111111111111111111", Symbol: "SCAM-LP", Amount: "500000000", ValueUSD: 4500},
				TokenOut:  &models.TokenAmount{Address: "So11111111111111111111111111111111111111112", Symbol: "SOL", Amount: "20000000000", ValueUSD: 4380},
				ValueUSD:  4500,
				Fee:       0.000005,
			},
			{
				Hash:      "9Xv4...k2Bw",
				Chain:     models.ChainBNB,
				Type:      models.TxSwap,
				Timestamp: now.Add(-45 * time.Minute),
				From:      BinanceWallet,
				To:        "PancakeSwap",
				TokenIn:   &models.TokenAmount{Address: "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", Symbol: "WBNB", Amount: "10000000000000000000000", ValueUSD: 6200000},
				TokenOut:  &models.TokenAmount{Address: CakeAddress, Symbol: "CAKE", Amount: "2530612000000000000000000", ValueUSD: 6200000},
				ValueUSD:  6200000,
				Fee:       0.001,
			},
		},

		Markets: []models.MarketOverview{
			{Chain: models.ChainSolana, TotalValueLocked: 8500000000, Volume24h: 2100000000, Transactions24h: 45678901, ActiveWallets24h: 1234567},
			{Chain: models.ChainBNB, TotalValueLocked: 5200000000, Volume24h: 890000000, Transactions24h: 12345678, ActiveWallets24h: 567890},
		},
	}
}
