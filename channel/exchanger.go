package channel

import "context"

// SyncExchanger adapts a Runtime's asynchronous Send/In channel pair into
// the master package's synchronous Exchanger interface: send one request
// fragment, then wait for the next reassembled fragment to arrive.
//
// This assumes a Runtime serving exactly one association at a time, which
// matches spec.md §5's single-task-in-flight rule for a master channel.
type SyncExchanger struct {
	Runtime *Runtime
}

func (e SyncExchanger) Exchange(ctx context.Context, request []byte) ([]byte, error) {
	if err := e.Runtime.Send(ctx, request); err != nil {
		return nil, err
	}
	select {
	case resp := <-e.Runtime.In():
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
