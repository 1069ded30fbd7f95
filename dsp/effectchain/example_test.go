package effectchain_test

import (
	"fmt"

	"github.com/cwbudde/algo-mastering/dsp/effectchain"
)

func ExampleChain_Apply() {
	cfg, err := effectchain.ParseConfig([]byte(`
compressor:
  threshold_db: -20
  ratio: 3
limiter:
  threshold_db: -1
`))
	if err != nil {
		fmt.Println(err)
		return
	}

	chain, err := effectchain.New(48000)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := chain.Apply(cfg); err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(chain.ActiveStages())
	fmt.Println("attack ms:", chain.Compressor().Config().AttackMs)
	// Output:
	// [compressor limiter]
	// attack ms: 10
}
