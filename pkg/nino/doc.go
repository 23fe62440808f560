// Package nino classifies shop-assistant utterances into intents with a
// BiLSTM model trained on a labeled intents corpus.
//
// Quick start:
//
//	n, err := nino.New(nino.WithModelDir("models/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer n.Close()
//
//	in, _ := n.Classify("còn size của A009 không shop ơi?")
//	fmt.Println(in.Tag, in.ProductCodes) // ask_size [A009]
//
// A Nino is safe for concurrent use. Create once, reuse across requests.
package nino
