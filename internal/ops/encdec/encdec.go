package encdec

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"GenesisTools/internal/keystore"
	"GenesisTools/internal/logsink"
	"GenesisTools/pkg/logx"

	gethks "github.com/ethereum/go-ethereum/accounts/keystore"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// EncryptOptions controls encryption job behaviour.
type EncryptOptions struct {
	InputsBaseDir        string // e.g. "inputs"
	LogsBase             string // e.g. "logs"
	Password             string // required
	PassHint             string // optional text stored near logs for future reference
	HideSecretsInConsole bool   // if true, do not print private keys to console logs
}

// DecryptOptions controls decryption job behaviour.
type DecryptOptions struct {
	InputsBaseDir        string
	LogsBase             string
	Password             string // required
	HideSecretsInConsole bool
}

// EncryptSecrets reads inputs/encrypt/secrets.jsonl (a testnet run artifact)
// and encrypts every signing key with a single password. Results:
//
//	logs/encrypt/<DD.MM.YYYY>/encrypt_<HH-MM-SS>/app.log
//	logs/encrypt/.../all.jsonl (one keystore JSON per line)
//	logs/encrypt/.../files/<address>.json (one file per participant)
func EncryptSecrets(opt EncryptOptions) error {
	const module = "encrypt"

	dir, err := logsink.MakeModuleDirs(opt.LogsBase, module)
	if err != nil {
		return err
	}
	_ = logsink.WriteHint(dir, opt.PassHint)

	logPath := filepath.Join(dir, "app.log")
	if err := logx.Init(logx.Config{Level: "info", FilePath: logPath, ConsoleOnly: false, HideSecretsInConsole: opt.HideSecretsInConsole}); err != nil {
		return fmt.Errorf("logx init failed: %w", err)
	}
	defer logx.Close()
	app := logx.S()

	inFile := filepath.Join(opt.InputsBaseDir, "encrypt", "secrets.jsonl")
	f, err := os.Open(inFile)
	if err != nil {
		return fmt.Errorf("open secrets.jsonl: %w", err)
	}
	defer f.Close()

	app.Infow("encrypt started", "inputs", inFile, "out", dir)

	allPath := filepath.Join(dir, "all.jsonl")
	var total, okCnt, failCnt int
	start := time.Now()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		total++

		privHex, perr := privateKeyOf(line)
		if perr != nil {
			failCnt++
			app.Errorw("parse secret line failed", "err", perr)
			continue
		}
		priv, perr := gethcrypto.HexToECDSA(strings.TrimPrefix(privHex, "0x"))
		if perr != nil {
			failCnt++
			app.Errorw("parse private key failed", "err", perr)
			continue
		}

		addr := gethcrypto.PubkeyToAddress(priv.PublicKey).Hex()
		blob, kerr := gethks.EncryptKey(&gethks.Key{Address: gethcrypto.PubkeyToAddress(priv.PublicKey), PrivateKey: priv}, opt.Password, gethks.StandardScryptN, gethks.StandardScryptP)
		if kerr != nil {
			failCnt++
			app.Errorw("keystore encrypt failed", "addr", addr, "err", kerr)
			continue
		}

		if err := keystore.AppendJSONL(allPath, blob); err != nil {
			failCnt++
			app.Errorw("append jsonl failed", "addr", addr, "err", err)
			continue
		}
		if werr := keystore.WriteKeyFile(dir, addr, blob); werr != nil {
			failCnt++
			app.Errorw("write single keystore failed", "addr", addr, "err", werr)
			continue
		}

		okCnt++
		if !opt.HideSecretsInConsole {
			app.Infow("ENCRYPTED", "address", addr, "private_key", privHex)
		} else {
			app.Infow("ENCRYPTED", "address", addr)
		}
	}
	if err := sc.Err(); err != nil {
		app.Errorw("scan secrets.jsonl failed", "err", err)
	}

	app.Infow("encrypt finished", "total", total, "ok", okCnt, "failed", failCnt, "elapsed", time.Since(start).String())
	return nil
}

// privateKeyOf extracts the signing key from either a secrets.jsonl record
// or a bare hex line.
func privateKeyOf(line string) (string, error) {
	if strings.HasPrefix(line, "{") {
		var rec struct {
			PrivateKey string `json:"private_key"`
		}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return "", fmt.Errorf("invalid secret record: %w", err)
		}
		if rec.PrivateKey == "" {
			return "", errors.New("secret record has no private_key field")
		}
		return rec.PrivateKey, nil
	}
	return line, nil
}

// DecryptKeystores reads inputs/decrypt/{all.jsonl, *.json, files/*.json}
// and writes raw keys into logs/decrypt/.../all.txt as "address:private" lines.
func DecryptKeystores(opt DecryptOptions) error {
	const module = "decrypt"

	dir, err := logsink.MakeModuleDirs(opt.LogsBase, module)
	if err != nil {
		return err
	}
	logPath := filepath.Join(dir, "app.log")
	if err := logx.Init(logx.Config{Level: "info", FilePath: logPath, ConsoleOnly: false, HideSecretsInConsole: opt.HideSecretsInConsole}); err != nil {
		return fmt.Errorf("logx init failed: %w", err)
	}
	defer logx.Close()
	app := logx.S()

	inDir := filepath.Join(opt.InputsBaseDir, "decrypt")
	outAll := filepath.Join(dir, "all.txt")

	outF, err := os.Create(outAll)
	if err != nil {
		return fmt.Errorf("create all.txt: %w", err)
	}
	defer outF.Close()

	files := collectInputFiles(inDir)
	if len(files) == 0 {
		app.Warnw("no keystore files found", "dir", inDir)
		return nil
	}

	app.Infow("decrypt started", "inputs", inDir, "out", dir, "files", len(files))

	var total, okCnt, failCnt int
	start := time.Now()

	report := func(addr, privHex string) {
		_, _ = fmt.Fprintf(outF, "%s:%s\n", addr, privHex)
		if !opt.HideSecretsInConsole {
			app.Infow("DECRYPTED", "address", addr, "private_key", privHex)
		} else {
			app.Infow("DECRYPTED", "address", addr)
		}
	}

	for _, p := range files {
		if strings.HasSuffix(p, ".jsonl") {
			f, err := os.Open(p)
			if err != nil {
				app.Errorw("open jsonl failed", "file", p, "err", err)
				continue
			}
			sc := bufio.NewScanner(f)
			sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				if line == "" {
					continue
				}
				total++
				addr, privHex, derr := decryptOne([]byte(line), opt.Password)
				if derr != nil {
					failCnt++
					app.Errorw("decrypt failed", "file", p, "err", derr)
					continue
				}
				okCnt++
				report(addr, privHex)
			}
			_ = f.Close()
			if err := sc.Err(); err != nil {
				app.Errorw("scan jsonl failed", "file", p, "err", err)
			}
			continue
		}

		blob, err := os.ReadFile(p)
		if err != nil {
			app.Errorw("read json failed", "file", p, "err", err)
			continue
		}
		total++
		addr, privHex, derr := decryptOne(blob, opt.Password)
		if derr != nil {
			failCnt++
			app.Errorw("decrypt failed", "file", p, "err", derr)
			continue
		}
		okCnt++
		report(addr, privHex)
	}

	app.Infow("decrypt finished", "total", total, "ok", okCnt, "failed", failCnt, "elapsed", time.Since(start).String())
	return nil
}

func collectInputFiles(inDir string) []string {
	var files []string
	allJSONL := filepath.Join(inDir, "all.jsonl")
	if st, err := os.Stat(allJSONL); err == nil && !st.IsDir() {
		files = append(files, allJSONL)
	}
	entries, _ := os.ReadDir(inDir)
	for _, de := range entries {
		if de.IsDir() {
			// support inputs/decrypt/files/*.json
			if de.Name() == "files" {
				sub := filepath.Join(inDir, "files")
				subEntries, _ := os.ReadDir(sub)
				for _, se := range subEntries {
					if !se.IsDir() && strings.HasSuffix(se.Name(), ".json") {
						files = append(files, filepath.Join(sub, se.Name()))
					}
				}
			}
			continue
		}
		if strings.HasSuffix(de.Name(), ".json") {
			files = append(files, filepath.Join(inDir, de.Name()))
		}
	}
	return files
}

func decryptOne(blob []byte, password string) (addr string, privHex string, err error) {
	blob = []byte(strings.TrimSpace(string(blob)))
	// Validate JSON ahead of DecryptKey to return clearer error on garbage input.
	var js map[string]any
	if err := json.Unmarshal(blob, &js); err != nil {
		return "", "", fmt.Errorf("invalid keystore json: %w", err)
	}

	key, err := gethks.DecryptKey(blob, password)
	if err != nil {
		return "", "", err
	}
	addr = key.Address.Hex() // keep 0x prefix
	privHex = "0x" + fmt.Sprintf("%x", gethcrypto.FromECDSA(key.PrivateKey))
	return addr, privHex, nil
}
