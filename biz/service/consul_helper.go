package service

import (
	"fmt"

	"github.com/hashicorp/consul/api"
)

// ConsulHelper 封装 Consul 注册与发现
// 使用前请确保 Consul agent 已启动

type ConsulHelper struct {
	client *api.Client
}

// NewConsulHelperWithAddrs 支持多个 Consul 地址高可用
func NewConsulHelperWithAddrs(addrs []string) (*ConsulHelper, error) {
	var lastErr error
	for _, addr := range addrs {
		cfg := api.DefaultConfig()
		cfg.Address = addr
		cli, err := api.NewClient(cfg)
		if err == nil {
			// 尝试健康检查
			_, errPing := cli.Agent().Self()
			if errPing == nil {
				return &ConsulHelper{client: cli}, nil
			}
			lastErr = errPing
		} else {
			lastErr = err
		}
	}
	return nil, fmt.Errorf("all consul addresses failed: %v", lastErr)
}

// Client 返回底层 Consul 客户端（快照任务锁用）
func (c *ConsulHelper) Client() *api.Client {
	return c.client
}

// RegisterAPIService 把本节点注册到 Consul，带 TCP 健康检查
func (c *ConsulHelper) RegisterAPIService(serviceName, nodeID, host string, port int) error {
	reg := &api.AgentServiceRegistration{
		ID:      nodeID,
		Name:    serviceName,
		Address: host,
		Port:    port,
		Check: &api.AgentServiceCheck{
			TCP:      fmt.Sprintf("%s:%d", host, port),
			Interval: "10s",
			Timeout:  "2s",
		},
	}
	return c.client.Agent().ServiceRegister(reg)
}

// DeregisterAPIService 下线时注销
func (c *ConsulHelper) DeregisterAPIService(nodeID string) error {
	return c.client.Agent().ServiceDeregister(nodeID)
}
