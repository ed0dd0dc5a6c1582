package cli

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"GenesisTools/internal/generator"
	"GenesisTools/internal/ops/encdec"
	"GenesisTools/pkg/config"
	"GenesisTools/pkg/logx"
)

type Runner struct {
	in                   *bufio.Reader
	HideSecretsInConsole bool
	LogsBase             string
}

func NewRunner() *Runner {
	return &Runner{in: bufio.NewReader(os.Stdin), LogsBase: "logs"}
}

func (r *Runner) prompt() string {
	text, _ := r.in.ReadString('\n')
	return strings.TrimSpace(text)
}

func (r *Runner) Run() {
	for {
		fmt.Println()
		fmt.Println("GenesisTools — Genesis data generator")
		fmt.Println("1) Generate testnet genesis from a master seed")
		fmt.Println("2) Assemble mainnet genesis from supplied committee data")
		fmt.Println("3) Encrypt generated secrets → keystore")
		fmt.Println("4) Decrypt keystore → raw")
		fmt.Println("Press enter to exit")
		fmt.Print("> ")
		choice := strings.ToLower(r.prompt())
		switch choice {
		case "1":
			r.handleTestnet()
		case "2":
			r.handleMainnet()
		case "3":
			r.handleEncrypt()
		case "4":
			r.handleDecrypt()
		case "":
			return
		default:
			fmt.Println("Unknown choice")
		}
	}
}

func (r *Runner) handleTestnet() {
	spec, err := config.Load("configs/genesis.yaml")
	if err != nil {
		logx.S().Errorw("load genesis spec failed", "err", err)
		return
	}

	seed, err := r.readMasterSeed()
	if err != nil {
		logx.S().Errorw("read master seed failed", "err", err)
		return
	}
	if len(seed) == 0 {
		fmt.Println("Empty master seed, aborting.")
		return
	}

	fmt.Print("Optional seed hint (saved to hint.txt, never the seed itself): ")
	hint := r.prompt()

	fmt.Println("Encrypt generated secrets to keystore files? (y/n)")
	yn := strings.ToLower(r.prompt())
	encrypt := yn == "y" || yn == "yes"
	var pwd string
	if encrypt {
		fmt.Print("Keystore password: ")
		pwd = r.prompt()
		if pwd == "" {
			fmt.Println("Empty password, encryption disabled.")
			encrypt = false
		}
	}

	opts, err := testnetOptions(spec, seed)
	if err != nil {
		logx.S().Errorw("genesis spec rejected", "err", err)
		return
	}

	runOpt := generator.RunOptions{
		Options:              opts,
		LogsBase:             r.LogsBase,
		PassHint:             hint,
		EncryptSecrets:       encrypt,
		KeystorePassword:     pwd,
		HideSecretsInConsole: r.HideSecretsInConsole,
	}
	logx.S().Infow("start generation", "mode", "testnet", "encrypt_secrets", encrypt)
	if err := generator.Run(runOpt); err != nil {
		logx.S().Errorw("generation error", "err", err)
	} else {
		logx.S().Infow("generation done")
	}
}

func (r *Runner) handleMainnet() {
	official, err := config.LoadOfficial("configs/mainnet.yaml")
	if err != nil {
		logx.S().Errorw("load mainnet committee failed", "err", err)
		return
	}
	custom, err := customDistribution(official)
	if err != nil {
		logx.S().Errorw("mainnet committee rejected", "err", err)
		return
	}

	runOpt := generator.RunOptions{
		Options: generator.Options{
			Mode:         generator.ModeMainnet,
			Distribution: custom,
		},
		LogsBase:             r.LogsBase,
		HideSecretsInConsole: r.HideSecretsInConsole,
	}
	logx.S().Infow("start generation", "mode", "mainnet",
		"stakeholders", len(official.Stakeholders), "certificates", len(official.Certificates))
	if err := generator.Run(runOpt); err != nil {
		logx.S().Errorw("generation error", "err", err)
	} else {
		logx.S().Infow("generation done")
	}
}

func (r *Runner) handleEncrypt() {
	fmt.Print("Keystore password: ")
	pwd := strings.TrimSpace(r.prompt())
	fmt.Print("Optional hint: ")
	hint := strings.TrimSpace(r.prompt())
	_ = encdec.EncryptSecrets(encdec.EncryptOptions{
		InputsBaseDir: "inputs", LogsBase: r.LogsBase,
		Password: pwd, PassHint: hint,
		HideSecretsInConsole: r.HideSecretsInConsole,
	})
}

func (r *Runner) handleDecrypt() {
	fmt.Print("Keystore password: ")
	pwd := strings.TrimSpace(r.prompt())
	_ = encdec.DecryptKeystores(encdec.DecryptOptions{
		InputsBaseDir: "inputs", LogsBase: r.LogsBase,
		Password: pwd, HideSecretsInConsole: r.HideSecretsInConsole,
	})
}

// readMasterSeed reads the seed without echoing it to the terminal. A 0x
// prefix means the seed is given as hex; anything else is taken verbatim.
func (r *Runner) readMasterSeed() ([]byte, error) {
	fmt.Print("Master seed (input hidden): ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		// Not a terminal (e.g. piped input), fall back to a plain read.
		line := r.prompt()
		raw = []byte(line)
	}
	s := strings.TrimSpace(string(raw))
	if strings.HasPrefix(s, "0x") {
		b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return nil, fmt.Errorf("hex master seed: %w", err)
		}
		return b, nil
	}
	return []byte(s), nil
}
