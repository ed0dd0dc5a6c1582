package generator

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"GenesisTools/internal/avvm"
	"GenesisTools/internal/crypto"
	"GenesisTools/internal/keystore"
	"GenesisTools/internal/logsink"
	"GenesisTools/pkg/logx"
)

// RunOptions couples the generation inputs with the artifact/output knobs of
// one tool invocation.
type RunOptions struct {
	Options

	LogsBase             string // e.g. "logs"
	PassHint             string // hint.txt content, optional
	EncryptSecrets       bool   // additionally write keystore V3 files
	KeystorePassword     string
	HideSecretsInConsole bool
}

type genesisDocument struct {
	Mode            string            `json:"mode"`
	NonAvvmBalances map[string]string `json:"non_avvm_balances"`
	AvvmBalances    map[string]string `json:"avvm_balances"`
	Stakeholders    map[string]uint64 `json:"bootstrap_stakeholders"`
	VSSCertificates []certDocument    `json:"vss_certificates"`
}

type certDocument struct {
	Issuer       string `json:"issuer"`
	VSSPublicKey string `json:"vss_public_key"`
	ExpiryEpoch  uint64 `json:"expiry_epoch"`
	Signature    string `json:"signature"`
}

type secretRecord struct {
	Address      string `json:"address"`
	PrivateKey   string `json:"private_key"`
	Mnemonic     string `json:"mnemonic"`
	HDAddress    string `json:"hd_address,omitempty"`
	VSSPublicKey string `json:"vss_public_key"`
	VSSSecret    string `json:"vss_secret"`
}

type avvmSeedRecord struct {
	Index   int    `json:"index"`
	Seed    string `json:"seed"`
	Address string `json:"address"`
	Balance string `json:"balance"`
}

// Run executes one generation and persists its artifacts under
// logs/<mode>/<date>/<mode_time>/: app.log, genesis.json and, for testnet
// runs, secrets.jsonl, avvm-seeds.jsonl and optional keystore files.
func Run(opt RunOptions) error {
	dir, err := logsink.MakeModuleDirs(opt.LogsBase, string(opt.Mode))
	if err != nil {
		return err
	}
	_ = logsink.WriteHint(dir, opt.PassHint)

	logPath := filepath.Join(dir, "app.log")
	if err := logx.Init(logx.Config{
		Level:                "info",
		FilePath:             logPath,
		ConsoleOnly:          false,
		HideSecretsInConsole: opt.HideSecretsInConsole,
	}); err != nil {
		return fmt.Errorf("logx init for run failed: %w", err)
	}
	app := logx.S()

	start := time.Now()
	app.Infow("generation started",
		"mode", opt.Mode,
		"out", dir,
		"richmen", opt.Balances.Richmen,
		"poors", opt.Balances.Poors,
		"avvm", opt.Avvm.Count,
	)

	data, err := Generate(opt.Options)
	if err != nil {
		app.Errorw("generation aborted, no genesis data was produced", "err", err)
		return err
	}

	if err := logsink.WriteJSON(dir, "genesis.json", renderGenesis(opt.Mode, data)); err != nil {
		return fmt.Errorf("write genesis.json: %w", err)
	}

	if opt.Mode == ModeTestnet {
		if err := writeSecrets(dir, data, opt); err != nil {
			return err
		}
		if err := writeAvvmSeeds(dir, data, opt); err != nil {
			return err
		}
	}

	app.Infow("generation done",
		"elapsed", time.Since(start).String(),
		"addresses", len(data.NonAvvmBalances)+len(data.AvvmBalances),
		"stakeholders", len(data.Stakeholders),
		"certificates", len(data.VSSCertificates),
	)
	return nil
}

func renderGenesis(mode Mode, data *GenesisData) genesisDocument {
	doc := genesisDocument{
		Mode:            string(mode),
		NonAvvmBalances: make(map[string]string, len(data.NonAvvmBalances)),
		AvvmBalances:    make(map[string]string, len(data.AvvmBalances)),
		Stakeholders:    make(map[string]uint64, len(data.Stakeholders)),
	}
	for a, b := range data.NonAvvmBalances {
		doc.NonAvvmBalances[a.Hex()] = b.String()
	}
	for a, b := range data.AvvmBalances {
		doc.AvvmBalances[a.Hex()] = b.String()
	}
	for a, w := range data.Stakeholders {
		doc.Stakeholders[a.Hex()] = w
	}
	for _, c := range data.VSSCertificates {
		doc.VSSCertificates = append(doc.VSSCertificates, certDocument{
			Issuer:       c.Issuer.Hex(),
			VSSPublicKey: hex.EncodeToString(c.VSSPublicKey),
			ExpiryEpoch:  c.ExpiryEpoch,
			Signature:    hex.EncodeToString(c.Signature),
		})
	}
	// Stable certificate order keeps the artifact diffable across runs.
	sort.Slice(doc.VSSCertificates, func(i, j int) bool {
		return doc.VSSCertificates[i].Issuer < doc.VSSCertificates[j].Issuer
	})
	return doc
}

func writeSecrets(dir string, data *GenesisData, opt RunOptions) error {
	app := logx.S()
	secretsPath := filepath.Join(dir, "secrets.jsonl")
	for i, s := range data.Secrets {
		rec := secretRecord{
			Address:      crypto.AddressOf(&s.Signing.PublicKey).Hex(),
			PrivateKey:   crypto.PrivToHex(s.Signing),
			Mnemonic:     s.HDRoot.Mnemonic,
			VSSPublicKey: hex.EncodeToString(s.VSS.PublicBytes()),
		}
		vssSecret, err := s.VSS.Secret.MarshalBinary()
		if err != nil {
			return fmt.Errorf("marshal vss secret %d: %w", i, err)
		}
		rec.VSSSecret = hex.EncodeToString(vssSecret)
		if opt.Balances.UseHDAddresses {
			if child, err := s.HDRoot.Derive(opt.Protocol.HDAccountIndex, opt.Protocol.HDAddressIndex); err == nil {
				rec.HDAddress = child.Address.Hex()
			}
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal secret %d: %w", i, err)
		}
		if err := keystore.AppendJSONL(secretsPath, b); err != nil {
			return fmt.Errorf("append secrets.jsonl: %w", err)
		}

		if opt.EncryptSecrets {
			blob, kerr := crypto.KeystoreJSON(s.Signing, opt.KeystorePassword)
			if kerr != nil {
				app.Errorw("keystore encrypt failed", "addr", rec.Address, "err", kerr)
				continue
			}
			if werr := keystore.WriteKeyFile(dir, rec.Address, blob); werr != nil {
				app.Errorw("write keystore file failed", "addr", rec.Address, "err", werr)
			}
		}
	}
	app.Infow("secrets written", "count", len(data.Secrets), "encrypted", opt.EncryptSecrets)
	return nil
}

func writeAvvmSeeds(dir string, data *GenesisData, opt RunOptions) error {
	seedsPath := filepath.Join(dir, "avvm-seeds.jsonl")
	for i, seed := range data.AvvmSeeds {
		entry, err := avvm.FromSeed(seed, opt.Avvm.Balance)
		if err != nil {
			return err
		}
		rec := avvmSeedRecord{
			Index:   i,
			Seed:    hex.EncodeToString(seed),
			Address: entry.Address.Hex(),
			Balance: entry.Balance.String(),
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal avvm seed %d: %w", i, err)
		}
		if err := keystore.AppendJSONL(seedsPath, b); err != nil {
			return fmt.Errorf("append avvm-seeds.jsonl: %w", err)
		}
	}
	logx.S().Infow("avvm seeds written", "count", len(data.AvvmSeeds))
	return nil
}
